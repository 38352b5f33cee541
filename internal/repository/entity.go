package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ratehub/ratehub/internal/model"
)

// ErrEntityNotFound indicates the requested entity does not exist.
var ErrEntityNotFound = errors.New("entity not found")

// CreateEntity inserts a new entity and fills in its generated ID and
// timestamp. Aggregates start at zero.
func (r *Repository) CreateEntity(ctx context.Context, entity *model.Entity) error {
	query := `
		INSERT INTO entities (title, description, category, author_id)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		entity.Title,
		entity.Description,
		entity.Category,
		entity.AuthorID,
	).Scan(&entity.ID, &entity.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create entity: %w", err)
	}

	return nil
}

// entitySelect is the shared projection for entity reads, including the
// author's username.
const entitySelect = `
	SELECT e.id, e.title, COALESCE(e.description, ''), e.category,
	       e.author_id, u.username, e.average_rating, e.review_count, e.created_at
	FROM entities e
	JOIN users u ON u.id = e.author_id
`

func scanEntity(row pgx.Row) (*model.Entity, error) {
	var entity model.Entity
	err := row.Scan(
		&entity.ID,
		&entity.Title,
		&entity.Description,
		&entity.Category,
		&entity.AuthorID,
		&entity.AuthorUsername,
		&entity.AverageRating,
		&entity.ReviewCount,
		&entity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetEntityByID retrieves a single entity by ID.
func (r *Repository) GetEntityByID(ctx context.Context, id int64) (*model.Entity, error) {
	query := entitySelect + `WHERE e.id = $1`

	entity, err := scanEntity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity by ID: %w", err)
	}

	return entity, nil
}

// ListEntities returns entities newest-first. A non-empty search term
// filters by case-insensitive substring match on title or category.
func (r *Repository) ListEntities(ctx context.Context, search string) ([]*model.Entity, error) {
	query := entitySelect
	args := []any{}

	if search != "" {
		query += `WHERE e.title ILIKE '%' || $1 || '%' OR e.category ILIKE '%' || $1 || '%' `
		args = append(args, search)
	}
	query += `ORDER BY e.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	entities := make([]*model.Entity, 0)
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entities: %w", err)
	}

	return entities, nil
}

// UpdateEntityAggregates writes a freshly computed {average, count} pair
// onto the entity row. The values are derived data owned by the review
// workflow; nothing else writes these columns.
func (r *Repository) UpdateEntityAggregates(ctx context.Context, id int64, average float64, count int) error {
	query := `
		UPDATE entities
		SET average_rating = $2, review_count = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, average, count)
	if err != nil {
		return fmt.Errorf("failed to update entity aggregates: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrEntityNotFound
	}

	return nil
}
