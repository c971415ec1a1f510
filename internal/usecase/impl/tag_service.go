package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "triplan/internal/delivery/context"
	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/domain/repository"
	"triplan/internal/errors"
	"triplan/internal/usecase"

	"github.com/google/uuid"
)

type tagService struct {
	txManager repository.TransactionManager
	tagRepo   repository.TagRepository
	logger    *slog.Logger
}

// NewTagService creates the tag usecase.
func NewTagService(
	txManager repository.TransactionManager,
	tagRepo repository.TagRepository,
	logger *slog.Logger,
) usecase.TagUsecase {
	return &tagService{
		txManager: txManager,
		tagRepo:   tagRepo,
		logger:    logger,
	}
}

func (s *tagService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

func (s *tagService) CreateTag(ctx context.Context, userID uuid.UUID, input *usecase.CreateTagInput) (*entity.Tag, error) {
	tag := &entity.Tag{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, errors.Wrap(err, "failed to create tag")
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context, userID uuid.UUID) ([]*entity.Tag, error) {
	tags, err := s.tagRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}
	return tags, nil
}

func (s *tagService) UpdateTag(ctx context.Context, userID, tagID uuid.UUID, input *usecase.UpdateTagInput) (*entity.Tag, error) {
	tag, err := s.loadOwnedTag(ctx, s.tagRepo, userID, tagID)
	if err != nil {
		return nil, err
	}

	tag.Description = input.Description
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, errors.Wrap(err, "failed to update tag")
	}
	return tag, nil
}

// DeleteTag removes a tag and its place associations. If the tag is the
// only tag of any place the whole operation fails and nothing is deleted,
// because removing it would strand those places without tags.
func (s *tagService) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	err := s.txManager.Execute(ctx, func(txRepo repository.RepositoryFactory) error {
		if _, err := s.loadOwnedTag(ctx, txRepo.TagRepo(), userID, tagID); err != nil {
			return err
		}

		// Lock every place referencing the tag so a concurrent tag removal
		// cannot change the picture between the check and the delete.
		blocked, err := txRepo.PlaceRepo().LockSolelyTaggedPlaces(ctx, tagID)
		if err != nil {
			return errors.Wrap(err, "failed to inspect tagged places")
		}
		if len(blocked) > 0 {
			return errors.Wrap(
				domainerrors.ErrTagStillInUse.WithDetails(fmt.Sprintf("%d place(s) would be left without tags", len(blocked))),
				"tag is the sole tag of some places",
			)
		}

		if err := txRepo.TagRepo().Delete(ctx, tagID); err != nil {
			return errors.Wrap(err, "failed to delete tag")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("tag deleted", slog.String("tag_id", tagID.String()))
	return nil
}

// loadOwnedTag resolves a tag and enforces ownership. A tag belonging to a
// different user yields Forbidden, a missing one NotFound.
func (s *tagService) loadOwnedTag(ctx context.Context, repo repository.TagRepository, userID, tagID uuid.UUID) (*entity.Tag, error) {
	tag, err := repo.FindByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, errors.Wrap(domainerrors.ErrTagNotFound, "tag does not exist")
		}
		return nil, errors.Wrap(err, "failed to load tag")
	}
	if tag.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "tag belongs to another user")
	}
	return tag, nil
}
