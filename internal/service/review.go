package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ratehub/ratehub/internal/metrics"
	"github.com/ratehub/ratehub/internal/model"
	"github.com/ratehub/ratehub/internal/repository"
)

// Review service errors.
var (
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview      = errors.New("review already submitted for this entity")
	ErrReviewTitleTooLong   = errors.New("review title must be at most 100 characters")
	ErrReviewContentTooLong = errors.New("review content must be at most 2000 characters")
)

const (
	maxReviewTitleLength   = 100
	maxReviewContentLength = 2000
)

// ReviewService coordinates the review-creation workflow and keeps the
// entity rating aggregates consistent with the review set.
type ReviewService struct {
	reviews  ReviewStore
	entities EntityStore
	cache    EntityCache
	metrics  metrics.Recorder
}

// NewReviewService creates a new ReviewService.
// cache may be nil to disable entity cache invalidation.
func NewReviewService(reviews ReviewStore, entities EntityStore, entityCache EntityCache, recorder metrics.Recorder) *ReviewService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ReviewService{
		reviews:  reviews,
		entities: entities,
		cache:    entityCache,
		metrics:  recorder,
	}
}

// CreateReviewInput defines input for submitting a review.
type CreateReviewInput struct {
	EntityID int64
	Rating   int
	Title    string
	Content  string
}

// Create runs the review-creation workflow as a strictly ordered sequence:
//
//  1. entity lookup          (missing entity -> ErrEntityNotFound, nothing runs)
//  2. duplicate check        (existing review -> ErrDuplicateReview, nothing runs)
//  3. persist the review
//  4. recompute {average, count} over the full review set
//  5. write the aggregates onto the entity row
//
// Steps 3-5 are not wrapped in a transaction: a failure after step 3 leaves
// the review persisted and the entity aggregates stale until the next
// successful creation for that entity. Nothing is rolled back or retried.
// The duplicate check in step 2 is advisory under concurrency; the UNIQUE
// (entity_id, author_id) constraint applied at step 3 is what actually
// guarantees the one-review-per-user invariant, and its violation surfaces
// as ErrDuplicateReview too.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput, authorID int64) (*model.Review, error) {
	if !model.ValidRating(input.Rating) {
		return nil, ErrInvalidRating
	}
	if len(input.Title) > maxReviewTitleLength {
		return nil, ErrReviewTitleTooLong
	}
	if len(input.Content) > maxReviewContentLength {
		return nil, ErrReviewContentTooLong
	}

	// Step 1: the entity must exist before anything is written.
	if _, err := s.entities.GetEntityByID(ctx, input.EntityID); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to look up entity: %w", err)
	}

	// Step 2: one review per (entity, author).
	exists, err := s.reviews.ReviewExists(ctx, input.EntityID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing review: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	// Step 3: persist.
	review := &model.Review{
		EntityID: input.EntityID,
		AuthorID: authorID,
		Rating:   input.Rating,
		Title:    input.Title,
		Content:  input.Content,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			// Lost the race against a concurrent submission.
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.metrics.IncReviewCreated()

	// Step 4: recompute from the full set, not incrementally.
	agg, err := s.reviews.ReviewAggregates(ctx, input.EntityID)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute aggregates: %w", err)
	}

	// Step 5: propagate onto the entity row.
	if err := s.entities.UpdateEntityAggregates(ctx, input.EntityID, agg.Average, agg.Count); err != nil {
		return nil, fmt.Errorf("failed to update entity aggregates: %w", err)
	}

	s.metrics.IncAggregateUpdated()

	// Cached entity detail now carries stale aggregates.
	if s.cache != nil {
		_ = s.cache.InvalidateEntity(ctx, input.EntityID)
	}

	return review, nil
}

// ListByEntity returns all reviews for an entity, newest first.
// Returns ErrEntityNotFound if the entity does not exist; an entity with no
// reviews yields an empty slice.
func (s *ReviewService) ListByEntity(ctx context.Context, entityID int64) ([]*model.Review, error) {
	if _, err := s.entities.GetEntityByID(ctx, entityID); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to look up entity: %w", err)
	}

	reviews, err := s.reviews.ListReviewsByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}
