package usecase

import (
	"context"

	"triplan/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// CreatePlaceInput carries the data needed to save a place. The id comes
// from the map provider, not from this system.
type CreatePlaceInput struct {
	ExternalID string   `json:"id" validate:"required,max=100"`
	Name       string   `json:"name" validate:"required,max=255"`
	Address    string   `json:"address" validate:"max=255"`
	Latitude   float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Memo       string   `json:"memo" validate:"max=2000"`
	TagNames   []string `json:"tagNames" validate:"required,min=1,dive,required,max=100"`
}

// ListPlacesInput restricts and orders a place listing.
type ListPlacesInput struct {
	TagID *uuid.UUID // only places carrying this tag
	Near  *orb.Point // sort by distance from this coordinate
}

// PlaceUsecase defines place operations and guards the tag-membership
// invariant: a live place always references at least one tag, immediately
// after every committed mutation.
type PlaceUsecase interface {
	// CreatePlace saves a place with its initial tags in one atomic unit.
	// An empty tag list is rejected before any write.
	CreatePlace(ctx context.Context, userID uuid.UUID, input *CreatePlaceInput) (*entity.Place, error)

	GetPlace(ctx context.Context, userID uuid.UUID, externalID string) (*entity.Place, error)
	ListPlaces(ctx context.Context, userID uuid.UUID, input *ListPlacesInput) ([]*entity.Place, error)

	// DeletePlace is unconditionally allowed; the invariant constrains live
	// places only.
	DeletePlace(ctx context.Context, userID uuid.UUID, externalID string) error

	// AddTagToPlace is idempotent; adding an existing association succeeds
	// without creating a duplicate.
	AddTagToPlace(ctx context.Context, userID uuid.UUID, externalID string, tagID uuid.UUID) error

	// RemoveTagFromPlace re-checks the association count and the removal in
	// one atomic unit; removing the last tag fails and mutates nothing.
	RemoveTagFromPlace(ctx context.Context, userID uuid.UUID, externalID string, tagID uuid.UUID) error
}
