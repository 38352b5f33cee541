package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ratehub/ratehub/internal/metrics"
	"github.com/ratehub/ratehub/internal/model"
	"github.com/ratehub/ratehub/internal/repository"
)

// Entity service errors.
var (
	ErrEntityNotFound     = errors.New("entity not found")
	ErrInvalidTitle       = errors.New("title must be 3-100 characters")
	ErrInvalidCategory    = errors.New("category is required and at most 50 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 500 characters")
)

const (
	minTitleLength       = 3
	maxTitleLength       = 100
	maxCategoryLength    = 50
	maxDescriptionLength = 500
)

// EntityService handles entity business logic.
type EntityService struct {
	entities EntityStore
	cache    EntityCache
	metrics  metrics.Recorder
}

// NewEntityService creates a new EntityService.
// cache may be nil to disable entity detail caching.
func NewEntityService(entities EntityStore, entityCache EntityCache, recorder metrics.Recorder) *EntityService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EntityService{
		entities: entities,
		cache:    entityCache,
		metrics:  recorder,
	}
}

// CreateEntityInput defines input for creating an entity.
type CreateEntityInput struct {
	Title       string
	Description string
	Category    string
}

// Create validates and persists a new entity owned by authorID.
// Aggregates start at zero; only the review workflow mutates them.
func (s *EntityService) Create(ctx context.Context, input CreateEntityInput, authorID int64) (*model.Entity, error) {
	title := strings.TrimSpace(input.Title)
	category := strings.TrimSpace(input.Category)

	if len(title) < minTitleLength || len(title) > maxTitleLength {
		return nil, ErrInvalidTitle
	}
	if category == "" || len(category) > maxCategoryLength {
		return nil, ErrInvalidCategory
	}
	if len(input.Description) > maxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	entity := &model.Entity{
		Title:       title,
		Description: input.Description,
		Category:    category,
		AuthorID:    authorID,
	}

	if err := s.entities.CreateEntity(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}

	s.metrics.IncEntityCreated()

	return entity, nil
}

// List returns entities newest-first, optionally filtered by a search term
// matched case-insensitively against title or category.
func (s *EntityService) List(ctx context.Context, search string) ([]*model.Entity, error) {
	entities, err := s.entities.ListEntities(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

// Get returns a single entity by ID, consulting the cache first.
// Cache failures are ignored; the database is authoritative.
func (s *EntityService) Get(ctx context.Context, id int64) (*model.Entity, error) {
	if s.cache != nil {
		if entity, err := s.cache.GetEntity(ctx, id); err == nil {
			s.metrics.IncEntityCacheHit()
			return entity, nil
		}
		s.metrics.IncEntityCacheMiss()
	}

	entity, err := s.entities.GetEntityByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.SetEntity(ctx, entity)
	}

	return entity, nil
}
