package repository

import (
	"context"
	"errors"

	"triplan/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTagNotFound is returned when no tag exists for the given key.
var ErrTagNotFound = errors.New("tag not found")

// TagRepository defines the standard operations for tag persistence.
// All reads and writes are owner-scoped except FindByID, which the usecase
// layer uses to distinguish a foreign owner (Forbidden) from absence (NotFound).
type TagRepository interface {
	// FindByID retrieves a tag by its unique ID regardless of owner.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error)

	// FindByName retrieves a tag by its per-owner unique name.
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*entity.Tag, error)

	// ListByUser retrieves all tags owned by a user, ordered by creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Tag, error)

	// Create persists a new tag. The storage's unique constraint on
	// (user_id, name) is the authority for duplicate detection.
	Create(ctx context.Context, tag *entity.Tag) error

	// Update modifies an existing tag.
	Update(ctx context.Context, tag *entity.Tag) error

	// Delete removes a tag and cascades its place associations.
	Delete(ctx context.Context, id uuid.UUID) error
}
