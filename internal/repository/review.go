package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ratehub/ratehub/internal/model"
)

// ErrDuplicateReview indicates the author has already reviewed the entity.
var ErrDuplicateReview = errors.New("review already exists for this author and entity")

// CreateReview inserts a new review and fills in its generated ID and
// timestamp. The UNIQUE (entity_id, author_id) constraint is the
// authoritative duplicate guard: two requests racing past the in-process
// duplicate check still produce exactly one row, the loser getting
// ErrDuplicateReview.
func (r *Repository) CreateReview(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (entity_id, author_id, rating, title, content)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		review.EntityID,
		review.AuthorID,
		review.Rating,
		review.Title,
		review.Content,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListReviewsByEntity returns all reviews for an entity, newest first.
// An entity with zero reviews yields an empty slice, not an error.
func (r *Repository) ListReviewsByEntity(ctx context.Context, entityID int64) ([]*model.Review, error) {
	query := `
		SELECT r.id, r.entity_id, r.author_id, u.username, r.rating,
		       COALESCE(r.title, ''), COALESCE(r.content, ''), r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.entity_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0)
	for rows.Next() {
		var review model.Review
		err := rows.Scan(
			&review.ID,
			&review.EntityID,
			&review.AuthorID,
			&review.AuthorUsername,
			&review.Rating,
			&review.Title,
			&review.Content,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, nil
}

// ReviewExists reports whether the author already has a review for the entity.
func (r *Repository) ReviewExists(ctx context.Context, entityID, authorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE entity_id = $1 AND author_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, entityID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return exists, nil
}

// ReviewAggregates recomputes {average, count} over the full review set for
// an entity. The average is rounded to 2 decimal places; no reviews yields
// {0, 0}.
func (r *Repository) ReviewAggregates(ctx context.Context, entityID int64) (model.RatingAggregate, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE entity_id = $1
	`

	var agg model.RatingAggregate
	if err := r.pool.QueryRow(ctx, query, entityID).Scan(&agg.Average, &agg.Count); err != nil {
		return model.RatingAggregate{}, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	agg.Average = math.Round(agg.Average*100) / 100

	return agg, nil
}
