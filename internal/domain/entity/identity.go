package entity

import "github.com/google/uuid"

// Identity is the verified caller identity extracted from an access token.
// It is attached to the request by the auth middleware and passed explicitly
// into every usecase call, never read from ambient state inside the domain.
type Identity struct {
	UserID uuid.UUID
	Email  string
}
