package usecase

import (
	"context"

	"triplan/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTagInput carries the data needed to create a tag.
type CreateTagInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateTagInput carries the mutable tag fields.
type UpdateTagInput struct {
	Description string `json:"description" validate:"max=1000"`
}

// TagUsecase defines tag operations. Every method is owner-scoped: the
// caller's verified userID is an explicit argument, never ambient state.
type TagUsecase interface {
	CreateTag(ctx context.Context, userID uuid.UUID, input *CreateTagInput) (*entity.Tag, error)
	ListTags(ctx context.Context, userID uuid.UUID) ([]*entity.Tag, error)
	UpdateTag(ctx context.Context, userID, tagID uuid.UUID, input *UpdateTagInput) (*entity.Tag, error)

	// DeleteTag removes a tag unless it is the sole tag of any place, in
	// which case nothing at all is deleted.
	DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error
}
