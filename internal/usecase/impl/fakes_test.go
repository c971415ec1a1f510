package impl

import (
	"context"
	"sync"

	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/domain/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the database. Repository methods
// mirror the constraint behavior of the Postgres implementations so the
// services under test see the same error surface.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	tags      map[uuid.UUID]*entity.Tag
	places    map[uuid.UUID]*entity.Place
	placeTags map[uuid.UUID]map[uuid.UUID]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]*entity.User),
		tags:      make(map[uuid.UUID]*entity.Tag),
		places:    make(map[uuid.UUID]*entity.Place),
		placeTags: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

// fakeTxManager serializes transactions with a mutex, standing in for the
// row locks the real implementation relies on.
type fakeTxManager struct {
	store *memStore
	txMu  sync.Mutex
}

func newFakeTxManager(store *memStore) *fakeTxManager {
	return &fakeTxManager{store: store}
}

func (m *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	return fn(&fakeRepoFactory{store: m.store})
}

type fakeRepoFactory struct {
	store *memStore
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository   { return &fakeUserRepo{store: f.store} }
func (f *fakeRepoFactory) TagRepo() repository.TagRepository     { return &fakeTagRepo{store: f.store} }
func (f *fakeRepoFactory) PlaceRepo() repository.PlaceRepository { return &fakePlaceRepo{store: f.store} }

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return domainerrors.ErrEmailAlreadyExists
		}
	}
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

type fakeTagRepo struct {
	store *memStore
}

func (r *fakeTagRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tag, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tag, ok := r.store.tags[id]
	if !ok {
		return nil, repository.ErrTagNotFound
	}
	clone := *tag
	return &clone, nil
}

func (r *fakeTagRepo) FindByName(ctx context.Context, userID uuid.UUID, name string) (*entity.Tag, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, tag := range r.store.tags {
		if tag.UserID == userID && tag.Name == name {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, repository.ErrTagNotFound
}

func (r *fakeTagRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Tag, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var tags []*entity.Tag
	for _, tag := range r.store.tags {
		if tag.UserID == userID {
			clone := *tag
			tags = append(tags, &clone)
		}
	}
	return tags, nil
}

func (r *fakeTagRepo) Create(ctx context.Context, tag *entity.Tag) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return domainerrors.ErrTagAlreadyExists
		}
	}
	clone := *tag
	r.store.tags[tag.ID] = &clone
	return nil
}

func (r *fakeTagRepo) Update(ctx context.Context, tag *entity.Tag) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tags[tag.ID]; !ok {
		return repository.ErrTagNotFound
	}
	clone := *tag
	r.store.tags[tag.ID] = &clone
	return nil
}

func (r *fakeTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tags[id]; !ok {
		return repository.ErrTagNotFound
	}
	delete(r.store.tags, id)
	for _, tagSet := range r.store.placeTags {
		delete(tagSet, id)
	}
	return nil
}

type fakePlaceRepo struct {
	store *memStore
}

func (r *fakePlaceRepo) FindByExternalID(ctx context.Context, userID uuid.UUID, externalID string) (*entity.Place, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, place := range r.store.places {
		if place.UserID == userID && place.ExternalID == externalID {
			return r.clonePlace(place), nil
		}
	}
	return nil, repository.ErrPlaceNotFound
}

func (r *fakePlaceRepo) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, place := range r.store.places {
		if place.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePlaceRepo) ListByUser(ctx context.Context, userID uuid.UUID, tagID *uuid.UUID) ([]*entity.Place, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var places []*entity.Place
	for _, place := range r.store.places {
		if place.UserID != userID {
			continue
		}
		if tagID != nil {
			if _, tagged := r.store.placeTags[place.ID][*tagID]; !tagged {
				continue
			}
		}
		places = append(places, r.clonePlace(place))
	}
	return places, nil
}

func (r *fakePlaceRepo) Create(ctx context.Context, place *entity.Place, tagIDs []uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.places {
		if existing.UserID == place.UserID && existing.ExternalID == place.ExternalID {
			return domainerrors.ErrPlaceAlreadyExists
		}
	}

	clone := *place
	clone.Tags = nil
	r.store.places[place.ID] = &clone

	tagSet := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		tagSet[tagID] = struct{}{}
	}
	r.store.placeTags[place.ID] = tagSet
	return nil
}

func (r *fakePlaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.places[id]; !ok {
		return repository.ErrPlaceNotFound
	}
	delete(r.store.places, id)
	delete(r.store.placeTags, id)
	return nil
}

func (r *fakePlaceRepo) AddTag(ctx context.Context, placeID, tagID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tagSet, ok := r.store.placeTags[placeID]
	if !ok {
		return repository.ErrPlaceNotFound
	}
	tagSet[tagID] = struct{}{}
	return nil
}

func (r *fakePlaceRepo) RemoveTag(ctx context.Context, placeID, tagID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tagSet, ok := r.store.placeTags[placeID]
	if !ok {
		return repository.ErrPlaceNotFound
	}
	delete(tagSet, tagID)
	return nil
}

func (r *fakePlaceRepo) HasTag(ctx context.Context, placeID, tagID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, tagged := r.store.placeTags[placeID][tagID]
	return tagged, nil
}

func (r *fakePlaceRepo) LockForUpdate(ctx context.Context, placeID uuid.UUID) error {
	// Transactions are serialized by fakeTxManager; there is no row to lock.
	return nil
}

func (r *fakePlaceRepo) CountTags(ctx context.Context, placeID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return int64(len(r.store.placeTags[placeID])), nil
}

func (r *fakePlaceRepo) LockSolelyTaggedPlaces(ctx context.Context, tagID uuid.UUID) ([]*entity.Place, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var places []*entity.Place
	for placeID, tagSet := range r.store.placeTags {
		if _, tagged := tagSet[tagID]; tagged && len(tagSet) == 1 {
			places = append(places, r.clonePlace(r.store.places[placeID]))
		}
	}
	return places, nil
}

// clonePlace copies a place with its tags resolved. Callers must hold store.mu.
func (r *fakePlaceRepo) clonePlace(place *entity.Place) *entity.Place {
	clone := *place
	clone.Tags = nil
	for tagID := range r.store.placeTags[place.ID] {
		if tag, ok := r.store.tags[tagID]; ok {
			tagClone := *tag
			clone.Tags = append(clone.Tags, &tagClone)
		}
	}
	return &clone
}
