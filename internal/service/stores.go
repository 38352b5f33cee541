// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/ratehub/ratehub/internal/model"
)

// UserStore is the persistence contract for users.
// Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UserExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}

// EntityStore is the persistence contract for entities.
// Implemented by *repository.Repository.
type EntityStore interface {
	CreateEntity(ctx context.Context, entity *model.Entity) error
	GetEntityByID(ctx context.Context, id int64) (*model.Entity, error)
	ListEntities(ctx context.Context, search string) ([]*model.Entity, error)
	UpdateEntityAggregates(ctx context.Context, id int64, average float64, count int) error
}

// ReviewStore is the persistence contract for reviews.
// Implemented by *repository.Repository.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *model.Review) error
	ListReviewsByEntity(ctx context.Context, entityID int64) ([]*model.Review, error)
	ReviewExists(ctx context.Context, entityID, authorID int64) (bool, error)
	ReviewAggregates(ctx context.Context, entityID int64) (model.RatingAggregate, error)
}

// EntityCache is a best-effort read cache for entity detail lookups.
// Implemented by *cache.Cache; a nil value disables caching.
type EntityCache interface {
	GetEntity(ctx context.Context, id int64) (*model.Entity, error)
	SetEntity(ctx context.Context, entity *model.Entity) error
	InvalidateEntity(ctx context.Context, id int64) error
}
