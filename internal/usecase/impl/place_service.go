package impl

import (
	"context"
	"log/slog"
	"sort"

	deliverycontext "triplan/internal/delivery/context"
	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/domain/repository"
	"triplan/internal/errors"
	"triplan/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geo"
)

type placeService struct {
	txManager repository.TransactionManager
	placeRepo repository.PlaceRepository
	logger    *slog.Logger
}

// NewPlaceService creates the place usecase.
func NewPlaceService(
	txManager repository.TransactionManager,
	placeRepo repository.PlaceRepository,
	logger *slog.Logger,
) usecase.PlaceUsecase {
	return &placeService{
		txManager: txManager,
		placeRepo: placeRepo,
		logger:    logger,
	}
}

func (s *placeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// CreatePlace saves a place together with its initial tags. Tags are
// resolved by name and created on the fly, so the client can send a new
// label without a separate round trip.
func (s *placeService) CreatePlace(ctx context.Context, userID uuid.UUID, input *usecase.CreatePlaceInput) (*entity.Place, error) {
	if len(input.TagNames) == 0 {
		return nil, errors.Wrap(
			domainerrors.ErrValidationFailed.WithDetails("a place requires at least one tag"),
			"empty tag list",
		)
	}

	var created *entity.Place
	err := s.txManager.Execute(ctx, func(txRepo repository.RepositoryFactory) error {
		tagIDs := make([]uuid.UUID, 0, len(input.TagNames))
		tags := make([]*entity.Tag, 0, len(input.TagNames))
		seen := make(map[uuid.UUID]struct{}, len(input.TagNames))

		for _, name := range input.TagNames {
			tag, err := txRepo.TagRepo().FindByName(ctx, userID, name)
			if err != nil {
				if !errors.Is(err, repository.ErrTagNotFound) {
					return errors.Wrap(err, "failed to resolve tag")
				}
				tag = &entity.Tag{ID: uuid.New(), UserID: userID, Name: name}
				if err := txRepo.TagRepo().Create(ctx, tag); err != nil {
					return errors.Wrap(err, "failed to create tag")
				}
			}
			// The same name may appear twice in the request.
			if _, dup := seen[tag.ID]; dup {
				continue
			}
			seen[tag.ID] = struct{}{}
			tagIDs = append(tagIDs, tag.ID)
			tags = append(tags, tag)
		}

		place := &entity.Place{
			ID:         uuid.New(),
			ExternalID: input.ExternalID,
			UserID:     userID,
			Name:       input.Name,
			Address:    input.Address,
			Latitude:   input.Latitude,
			Longitude:  input.Longitude,
			Memo:       input.Memo,
		}
		if err := txRepo.PlaceRepo().Create(ctx, place, tagIDs); err != nil {
			return errors.Wrap(err, "failed to create place")
		}

		place.Tags = tags
		created = place
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("place created",
		slog.String("place_id", created.ExternalID),
		slog.Int("tag_count", len(created.Tags)),
	)
	return created, nil
}

func (s *placeService) GetPlace(ctx context.Context, userID uuid.UUID, externalID string) (*entity.Place, error) {
	return s.resolvePlace(ctx, s.placeRepo, userID, externalID)
}

func (s *placeService) ListPlaces(ctx context.Context, userID uuid.UUID, input *usecase.ListPlacesInput) ([]*entity.Place, error) {
	places, err := s.placeRepo.ListByUser(ctx, userID, input.TagID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list places")
	}

	if input.Near != nil {
		origin := *input.Near
		sort.SliceStable(places, func(i, j int) bool {
			return geo.Distance(places[i].Point(), origin) < geo.Distance(places[j].Point(), origin)
		})
	}
	return places, nil
}

// DeletePlace removes a place regardless of how many tags it carries; the
// tag-membership rule constrains live places only.
func (s *placeService) DeletePlace(ctx context.Context, userID uuid.UUID, externalID string) error {
	err := s.txManager.Execute(ctx, func(txRepo repository.RepositoryFactory) error {
		place, err := s.resolvePlace(ctx, txRepo.PlaceRepo(), userID, externalID)
		if err != nil {
			return err
		}
		if err := txRepo.PlaceRepo().Delete(ctx, place.ID); err != nil {
			return errors.Wrap(err, "failed to delete place")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("place deleted", slog.String("place_id", externalID))
	return nil
}

// AddTagToPlace associates a tag with a place. Re-adding an existing
// association is a no-op success.
func (s *placeService) AddTagToPlace(ctx context.Context, userID uuid.UUID, externalID string, tagID uuid.UUID) error {
	return s.txManager.Execute(ctx, func(txRepo repository.RepositoryFactory) error {
		place, err := s.resolvePlace(ctx, txRepo.PlaceRepo(), userID, externalID)
		if err != nil {
			return err
		}
		if err := s.checkTagOwnership(ctx, txRepo.TagRepo(), userID, tagID); err != nil {
			return err
		}
		if err := txRepo.PlaceRepo().AddTag(ctx, place.ID, tagID); err != nil {
			return errors.Wrap(err, "failed to add tag to place")
		}
		return nil
	})
}

// RemoveTagFromPlace detaches a tag from a place. The place row is locked
// before the count check so two concurrent removals of the last two tags
// serialize: the second one re-reads a count of one and fails.
func (s *placeService) RemoveTagFromPlace(ctx context.Context, userID uuid.UUID, externalID string, tagID uuid.UUID) error {
	return s.txManager.Execute(ctx, func(txRepo repository.RepositoryFactory) error {
		place, err := s.resolvePlace(ctx, txRepo.PlaceRepo(), userID, externalID)
		if err != nil {
			return err
		}
		if err := s.checkTagOwnership(ctx, txRepo.TagRepo(), userID, tagID); err != nil {
			return err
		}

		if err := txRepo.PlaceRepo().LockForUpdate(ctx, place.ID); err != nil {
			return errors.Wrap(err, "failed to lock place")
		}

		// A tag the place never carried cannot threaten the tag count;
		// report the absent association instead of a spurious refusal.
		tagged, err := txRepo.PlaceRepo().HasTag(ctx, place.ID, tagID)
		if err != nil {
			return errors.Wrap(err, "failed to check place tag association")
		}
		if !tagged {
			return errors.Wrap(domainerrors.ErrNotFound, "tag is not associated with this place")
		}

		count, err := txRepo.PlaceRepo().CountTags(ctx, place.ID)
		if err != nil {
			return errors.Wrap(err, "failed to count place tags")
		}
		if count <= 1 {
			return errors.Wrap(domainerrors.ErrPlaceNeedsTag, "cannot remove the last tag")
		}

		if err := txRepo.PlaceRepo().RemoveTag(ctx, place.ID, tagID); err != nil {
			return errors.Wrap(err, "failed to remove tag from place")
		}
		return nil
	})
}

// resolvePlace looks up the caller's place by its map-provider id. If the
// id exists but belongs to someone else the caller gets Forbidden instead
// of NotFound, so a shared place link fails with an honest reason.
func (s *placeService) resolvePlace(ctx context.Context, repo repository.PlaceRepository, userID uuid.UUID, externalID string) (*entity.Place, error) {
	place, err := repo.FindByExternalID(ctx, userID, externalID)
	if err == nil {
		return place, nil
	}
	if !errors.Is(err, repository.ErrPlaceNotFound) {
		return nil, errors.Wrap(err, "failed to load place")
	}

	exists, err := repo.ExistsByExternalID(ctx, externalID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check place existence")
	}
	if exists {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "place belongs to another user")
	}
	return nil, errors.Wrap(domainerrors.ErrPlaceNotFound, "place does not exist")
}

func (s *placeService) checkTagOwnership(ctx context.Context, repo repository.TagRepository, userID, tagID uuid.UUID) error {
	tag, err := repo.FindByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return errors.Wrap(domainerrors.ErrTagNotFound, "tag does not exist")
		}
		return errors.Wrap(err, "failed to load tag")
	}
	if tag.UserID != userID {
		return errors.Wrap(domainerrors.ErrForbidden, "tag belongs to another user")
	}
	return nil
}
