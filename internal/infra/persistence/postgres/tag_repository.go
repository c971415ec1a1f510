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
)

// tagRepository implements the domain.TagRepository interface using GORM.
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository is the constructor for tagRepository.
func NewTagRepository(db *gorm.DB) repository.TagRepository {
	return &tagRepository{db: db}
}

// FindByID retrieves a tag by its unique ID regardless of owner.
func (repo *tagRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error) {
	var tagM model.TagModel

	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tagM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTagNotFound
		}

		return nil, errors.Wrap(err, "failed to find tag by id")
	}

	return toTagDomain(&tagM), nil
}

// FindByName retrieves a tag by its per-owner unique name.
func (repo *tagRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*entity.Tag, error) {
	var tagM model.TagModel

	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&tagM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTagNotFound
		}

		return nil, errors.Wrap(err, "failed to find tag by name")
	}

	return toTagDomain(&tagM), nil
}

// ListByUser retrieves all tags owned by a user, ordered by creation time.
func (repo *tagRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Tag, error) {
	var tagModels []model.TagModel

	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&tagModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags by user")
	}

	tags := make([]*entity.Tag, 0, len(tagModels))
	for i := range tagModels {
		tags = append(tags, toTagDomain(&tagModels[i]))
	}

	return tags, nil
}

// Create persists a new tag. The unique constraint on (user_id, name) is the
// authority for duplicate detection.
func (repo *tagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	tagM := fromTagDomain(tag)

	if err := repo.db.WithContext(ctx).Create(tagM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTagAlreadyExists.WrapMessage("tag name already exists for this user")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create tag")
	}

	tag.ID = tagM.ID
	tag.CreatedAt = tagM.CreatedAt
	tag.UpdatedAt = tagM.UpdatedAt

	return nil
}

// Update modifies an existing tag.
func (repo *tagRepository) Update(ctx context.Context, tag *entity.Tag) error {
	tagM := fromTagDomain(tag)

	if err := repo.db.WithContext(ctx).Save(tagM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTagAlreadyExists.WrapMessage("tag name already exists for this user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update tag")
	}

	tag.UpdatedAt = tagM.UpdatedAt

	return nil
}

// Delete removes a tag. The associations cascade at the storage level.
func (repo *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.TagModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete tag")
	}

	// If no rows were affected, the tag was not found.
	if result.RowsAffected == 0 {
		return repository.ErrTagNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toTagDomain converts a GORM TagModel to a domain Tag entity.
func toTagDomain(data *model.TagModel) *entity.Tag {
	if data == nil {
		return nil
	}

	return &entity.Tag{
		ID:          data.ID,
		UserID:      data.UserID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromTagDomain converts a domain Tag entity to a GORM TagModel.
func fromTagDomain(data *entity.Tag) *model.TagModel {
	if data == nil {
		return nil
	}

	return &model.TagModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
