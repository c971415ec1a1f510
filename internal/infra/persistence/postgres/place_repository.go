package postgres

import (
	"context"

	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/domain/repository"
	"triplan/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// placeRepository implements the domain.PlaceRepository interface using GORM.
//
// The locking methods take SELECT ... FOR UPDATE row locks and therefore only
// behave as documented when called on a repository bound to an open
// transaction via the RepositoryFactory.
type placeRepository struct {
	db *gorm.DB
}

// NewPlaceRepository is the constructor for placeRepository.
func NewPlaceRepository(db *gorm.DB) repository.PlaceRepository {
	return &placeRepository{db: db}
}

// FindByExternalID retrieves an owner's place by the map-provider id, with tags preloaded.
func (repo *placeRepository) FindByExternalID(ctx context.Context, userID uuid.UUID, externalID string) (*entity.Place, error) {
	var placeM model.PlaceModel

	err := repo.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ? AND external_id = ?", userID, externalID).
		First(&placeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlaceNotFound
		}

		return nil, errors.Wrap(err, "failed to find place by external id")
	}

	return toPlaceDomain(&placeM), nil
}

// ExistsByExternalID reports whether any owner has saved this external id.
func (repo *placeRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64

	err := repo.db.WithContext(ctx).
		Model(&model.PlaceModel{}).
		Where("external_id = ?", externalID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to count places by external id")
	}

	return count > 0, nil
}

// ListByUser retrieves all places owned by a user, optionally restricted to a tag.
func (repo *placeRepository) ListByUser(ctx context.Context, userID uuid.UUID, tagID *uuid.UUID) ([]*entity.Place, error) {
	var placeModels []model.PlaceModel

	query := repo.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", userID)

	if tagID != nil {
		query = query.Where(
			"id IN (SELECT place_id FROM place_tags WHERE tag_id = ?)", *tagID,
		)
	}

	if err := query.Order("created_at DESC").Find(&placeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list places by user")
	}

	places := make([]*entity.Place, 0, len(placeModels))
	for i := range placeModels {
		places = append(places, toPlaceDomain(&placeModels[i]))
	}

	return places, nil
}

// Create persists a new place together with its initial associations in one write.
func (repo *placeRepository) Create(ctx context.Context, place *entity.Place, tagIDs []uuid.UUID) error {
	placeM := fromPlaceDomain(place)

	if err := repo.db.WithContext(ctx).Omit("Tags").Create(placeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrPlaceAlreadyExists.WrapMessage("place already saved by this user")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create place")
	}

	if len(tagIDs) == 0 {
		return domainerrors.ErrPlaceNeedsTag.WrapMessage("place created without tags")
	}

	associations := make([]model.PlaceTagModel, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		associations = append(associations, model.PlaceTagModel{
			PlaceID: placeM.ID,
			TagID:   tagID,
		})
	}

	if err := repo.db.WithContext(ctx).Create(&associations).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrTagNotFound.WrapMessage("invalid tag reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create place associations")
	}

	place.ID = placeM.ID
	place.CreatedAt = placeM.CreatedAt
	place.UpdatedAt = placeM.UpdatedAt

	return nil
}

// Delete removes a place. The associations cascade at the storage level.
func (repo *placeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PlaceModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete place")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlaceNotFound
	}

	return nil
}

// AddTag associates a tag with a place. ON CONFLICT DO NOTHING makes the
// operation idempotent at the storage level.
func (repo *placeRepository) AddTag(ctx context.Context, placeID, tagID uuid.UUID) error {
	association := model.PlaceTagModel{
		PlaceID: placeID,
		TagID:   tagID,
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&association).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrTagNotFound.WrapMessage("invalid place or tag reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add tag to place")
	}

	return nil
}

// RemoveTag removes the association between a place and a tag.
func (repo *placeRepository) RemoveTag(ctx context.Context, placeID, tagID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("place_id = ? AND tag_id = ?", placeID, tagID).
		Delete(&model.PlaceTagModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to remove tag from place")
	}

	return nil
}

// HasTag reports whether the place currently carries the tag.
func (repo *placeRepository) HasTag(ctx context.Context, placeID, tagID uuid.UUID) (bool, error) {
	var count int64

	err := repo.db.WithContext(ctx).
		Model(&model.PlaceTagModel{}).
		Where("place_id = ? AND tag_id = ?", placeID, tagID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check place tag association")
	}

	return count > 0, nil
}

// LockForUpdate takes a SELECT ... FOR UPDATE lock on the place row.
// Concurrent invariant checks against the same place block here until the
// holding transaction commits or rolls back.
func (repo *placeRepository) LockForUpdate(ctx context.Context, placeID uuid.UUID) error {
	var placeM model.PlaceModel

	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", placeID).
		First(&placeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrPlaceNotFound
		}

		return errors.Wrap(err, "failed to lock place")
	}

	return nil
}

// CountTags returns the number of live associations for a place.
func (repo *placeRepository) CountTags(ctx context.Context, placeID uuid.UUID) (int64, error) {
	var count int64

	err := repo.db.WithContext(ctx).
		Model(&model.PlaceTagModel{}).
		Where("place_id = ?", placeID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count tags for place")
	}

	return count, nil
}

// LockSolelyTaggedPlaces locks and returns the places whose only association
// is the given tag. Locking every place that references the tag first keeps
// the subsequent sole-tag check stable against concurrent removals.
func (repo *placeRepository) LockSolelyTaggedPlaces(ctx context.Context, tagID uuid.UUID) ([]*entity.Place, error) {
	var placeModels []model.PlaceModel

	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN (SELECT place_id FROM place_tags WHERE tag_id = ?)", tagID).
		Find(&placeModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock places referencing tag")
	}

	var solelyTagged []*entity.Place
	for i := range placeModels {
		var otherCount int64
		err := repo.db.WithContext(ctx).
			Model(&model.PlaceTagModel{}).
			Where("place_id = ? AND tag_id <> ?", placeModels[i].ID, tagID).
			Count(&otherCount).Error
		if err != nil {
			return nil, errors.Wrap(err, "failed to count other tags for place")
		}

		if otherCount == 0 {
			solelyTagged = append(solelyTagged, toPlaceDomain(&placeModels[i]))
		}
	}

	return solelyTagged, nil
}

// --- Mapper Functions ---

// toPlaceDomain converts a GORM PlaceModel to a domain Place entity.
func toPlaceDomain(data *model.PlaceModel) *entity.Place {
	if data == nil {
		return nil
	}

	tags := make([]*entity.Tag, 0, len(data.Tags))
	for i := range data.Tags {
		tags = append(tags, toTagDomain(&data.Tags[i]))
	}

	return &entity.Place{
		ID:         data.ID,
		ExternalID: data.ExternalID,
		UserID:     data.UserID,
		Name:       data.Name,
		Address:    data.Address,
		Latitude:   data.Latitude,
		Longitude:  data.Longitude,
		Memo:       data.Memo,
		Tags:       tags,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromPlaceDomain converts a domain Place entity to a GORM PlaceModel.
func fromPlaceDomain(data *entity.Place) *model.PlaceModel {
	if data == nil {
		return nil
	}

	return &model.PlaceModel{
		ID:         data.ID,
		ExternalID: data.ExternalID,
		UserID:     data.UserID,
		Name:       data.Name,
		Address:    data.Address,
		Latitude:   data.Latitude,
		Longitude:  data.Longitude,
		Memo:       data.Memo,
	}
}
