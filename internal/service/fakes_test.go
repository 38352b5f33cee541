package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/ratehub/ratehub/internal/model"
	"github.com/ratehub/ratehub/internal/repository"
)

// In-memory store fakes mirroring the repository contract, including its
// sentinel errors and the storage-level uniqueness guarantees.

type fakeUserStore struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int64]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrUserExists
		}
	}
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.nextID++
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) UserExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, user := range f.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeEntityStore struct {
	nextID   int64
	entities map[int64]*model.Entity
}

func newFakeEntityStore() *fakeEntityStore {
	return &fakeEntityStore{nextID: 1, entities: make(map[int64]*model.Entity)}
}

func (f *fakeEntityStore) CreateEntity(_ context.Context, entity *model.Entity) error {
	entity.ID = f.nextID
	entity.CreatedAt = time.Now()
	f.nextID++
	clone := *entity
	f.entities[entity.ID] = &clone
	return nil
}

func (f *fakeEntityStore) GetEntityByID(_ context.Context, id int64) (*model.Entity, error) {
	entity, ok := f.entities[id]
	if !ok {
		return nil, repository.ErrEntityNotFound
	}
	clone := *entity
	return &clone, nil
}

func (f *fakeEntityStore) ListEntities(_ context.Context, search string) ([]*model.Entity, error) {
	result := make([]*model.Entity, 0, len(f.entities))
	for _, entity := range f.entities {
		clone := *entity
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeEntityStore) UpdateEntityAggregates(_ context.Context, id int64, average float64, count int) error {
	entity, ok := f.entities[id]
	if !ok {
		return repository.ErrEntityNotFound
	}
	entity.AverageRating = average
	entity.ReviewCount = count
	return nil
}

type reviewKey struct {
	entityID int64
	authorID int64
}

type fakeReviewStore struct {
	nextID  int64
	reviews map[reviewKey]*model.Review
	// blindExists makes ReviewExists always report false, simulating a
	// concurrent request that persisted between the duplicate check and
	// the insert.
	blindExists bool
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{nextID: 1, reviews: make(map[reviewKey]*model.Review)}
}

func (f *fakeReviewStore) CreateReview(_ context.Context, review *model.Review) error {
	key := reviewKey{review.EntityID, review.AuthorID}
	if _, exists := f.reviews[key]; exists {
		// Mirrors the UNIQUE (entity_id, author_id) constraint.
		return repository.ErrDuplicateReview
	}
	review.ID = f.nextID
	review.CreatedAt = time.Now()
	f.nextID++
	clone := *review
	f.reviews[key] = &clone
	return nil
}

func (f *fakeReviewStore) ListReviewsByEntity(_ context.Context, entityID int64) ([]*model.Review, error) {
	result := make([]*model.Review, 0)
	for _, review := range f.reviews {
		if review.EntityID == entityID {
			clone := *review
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeReviewStore) ReviewExists(_ context.Context, entityID, authorID int64) (bool, error) {
	if f.blindExists {
		return false, nil
	}
	_, exists := f.reviews[reviewKey{entityID, authorID}]
	return exists, nil
}

func (f *fakeReviewStore) ReviewAggregates(_ context.Context, entityID int64) (model.RatingAggregate, error) {
	sum, count := 0, 0
	for _, review := range f.reviews {
		if review.EntityID == entityID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return model.RatingAggregate{}, nil
	}
	average := math.Round(float64(sum)/float64(count)*100) / 100
	return model.RatingAggregate{Average: average, Count: count}, nil
}

func (f *fakeReviewStore) countForEntity(entityID int64) int {
	count := 0
	for _, review := range f.reviews {
		if review.EntityID == entityID {
			count++
		}
	}
	return count
}

type fakeEntityCache struct {
	entities    map[int64]*model.Entity
	invalidated []int64
}

func newFakeEntityCache() *fakeEntityCache {
	return &fakeEntityCache{entities: make(map[int64]*model.Entity)}
}

func (f *fakeEntityCache) GetEntity(_ context.Context, id int64) (*model.Entity, error) {
	entity, ok := f.entities[id]
	if !ok {
		return nil, errCacheMiss
	}
	clone := *entity
	return &clone, nil
}

func (f *fakeEntityCache) SetEntity(_ context.Context, entity *model.Entity) error {
	clone := *entity
	f.entities[entity.ID] = &clone
	return nil
}

func (f *fakeEntityCache) InvalidateEntity(_ context.Context, id int64) error {
	delete(f.entities, id)
	f.invalidated = append(f.invalidated, id)
	return nil
}

var errCacheMiss = errors.New("cache miss")
