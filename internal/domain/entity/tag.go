package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTagName is the tag every account starts with. It is created in the
// same transaction as the user record during registration.
const DefaultTagName = "Favorite"

// Tag is an owner-scoped label for places. The (UserID, Name) pair is unique;
// names are not unique globally.
type Tag struct {
	ID          uuid.UUID // The unique identifier for the tag.
	UserID      uuid.UUID // Links this tag to the User who owns it.
	Name        string    // Display name, unique per owner.
	Description string    // Optional free-text description.
	CreatedAt   time.Time // Timestamp of when this tag was created.
	UpdatedAt   time.Time // Timestamp of the last modification to this tag.
}
