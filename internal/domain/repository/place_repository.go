package repository

import (
	"context"
	"errors"

	"triplan/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPlaceNotFound is returned when no place exists for the given key.
var ErrPlaceNotFound = errors.New("place not found")

// PlaceRepository defines the standard operations for place persistence and
// the place-tag association table.
//
// CountTags, LockSolelyTaggedPlaces and the mutation methods are meant to run
// inside a transaction obtained from TransactionManager; the invariant checks
// in the usecase layer depend on the lock methods taking row locks that hold
// until commit.
type PlaceRepository interface {
	// FindByExternalID retrieves an owner's place by the map-provider id,
	// with its tags preloaded.
	FindByExternalID(ctx context.Context, userID uuid.UUID, externalID string) (*entity.Place, error)

	// ExistsByExternalID reports whether any owner has saved this external id.
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)

	// ListByUser retrieves all places owned by a user, optionally restricted
	// to those carrying the given tag.
	ListByUser(ctx context.Context, userID uuid.UUID, tagID *uuid.UUID) ([]*entity.Place, error)

	// Create persists a new place together with its initial associations in
	// one write. The storage's unique constraint on (user_id, external_id)
	// is the authority for duplicate detection.
	Create(ctx context.Context, place *entity.Place, tagIDs []uuid.UUID) error

	// Delete removes a place and cascades its associations.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddTag associates a tag with a place. Adding an existing association
	// is a no-op, not an error.
	AddTag(ctx context.Context, placeID, tagID uuid.UUID) error

	// RemoveTag removes the association between a place and a tag.
	RemoveTag(ctx context.Context, placeID, tagID uuid.UUID) error

	// HasTag reports whether the place currently carries the tag.
	HasTag(ctx context.Context, placeID, tagID uuid.UUID) (bool, error)

	// LockForUpdate takes a row lock on the place so that concurrent
	// invariant checks against it serialize until commit.
	LockForUpdate(ctx context.Context, placeID uuid.UUID) error

	// CountTags returns the number of live associations for a place.
	CountTags(ctx context.Context, placeID uuid.UUID) (int64, error)

	// LockSolelyTaggedPlaces locks and returns the places whose only
	// association is the given tag.
	LockSolelyTaggedPlaces(ctx context.Context, tagID uuid.UUID) ([]*entity.Place, error)
}
