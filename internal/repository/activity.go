package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ratehub/ratehub/internal/model"
)

// ActivityRepository provides database access for review events and the
// per-entity daily stats derived from them.
type ActivityRepository struct {
	repo *Repository
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(repo *Repository) *ActivityRepository {
	return &ActivityRepository{repo: repo}
}

// BulkInsert inserts multiple review events with idempotency via ON CONFLICT DO NOTHING.
func (r *ActivityRepository) BulkInsert(ctx context.Context, events []*model.ReviewEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO review_events (event_id, entity_id, review_id, author_id, rating, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING
	`

	for _, event := range events {
		batch.Queue(query,
			event.EventID,
			event.EntityID,
			event.ReviewID,
			event.AuthorID,
			event.Rating,
			event.OccurredAt,
		)
	}

	results := r.repo.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert event %d: %w", i, err)
		}
	}

	return nil
}

type dailyStatsKey struct {
	entityID int64
	date     time.Time
}

func uniqueDailyKeys(events []*model.ReviewEvent) []dailyStatsKey {
	seen := make(map[string]dailyStatsKey)
	for _, event := range events {
		day := event.OccurredAt.UTC().Truncate(24 * time.Hour)
		key := fmt.Sprintf("%d:%s", event.EntityID, day.Format("2006-01-02"))
		seen[key] = dailyStatsKey{entityID: event.EntityID, date: day}
	}

	keys := make([]dailyStatsKey, 0, len(seen))
	for _, key := range seen {
		keys = append(keys, key)
	}
	return keys
}

// UpdateDailyStats recomputes and upserts the daily stats rows touched by
// the batch. Recomputing from review_events rather than incrementing keeps
// the operation idempotent across worker retries.
func (r *ActivityRepository) UpdateDailyStats(ctx context.Context, events []*model.ReviewEvent) error {
	if len(events) == 0 {
		return nil
	}

	for _, key := range uniqueDailyKeys(events) {
		if err := r.recomputeDailyStat(ctx, key.entityID, key.date); err != nil {
			return fmt.Errorf("recompute daily stat %d:%s: %w",
				key.entityID, key.date.Format("2006-01-02"), err)
		}
	}

	return nil
}

func (r *ActivityRepository) recomputeDailyStat(ctx context.Context, entityID int64, date time.Time) error {
	start := date.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	query := `
		INSERT INTO daily_entity_stats (entity_id, date, review_count, rating_sum, updated_at)
		SELECT $1, $2, COUNT(*), COALESCE(SUM(rating), 0), NOW()
		FROM review_events
		WHERE entity_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ON CONFLICT (entity_id, date) DO UPDATE SET
			review_count = EXCLUDED.review_count,
			rating_sum = EXCLUDED.rating_sum,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.repo.pool.Exec(ctx, query, entityID, start, end); err != nil {
		return fmt.Errorf("upsert daily stat: %w", err)
	}

	return nil
}

// GetDailyStats retrieves daily stats for an entity within a date range,
// oldest day first. Days with no reviews have no row.
func (r *ActivityRepository) GetDailyStats(ctx context.Context, entityID int64, from, to time.Time) ([]*model.DailyEntityStats, error) {
	query := `
		SELECT entity_id, date, review_count, rating_sum
		FROM daily_entity_stats
		WHERE entity_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.repo.pool.Query(ctx, query, entityID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*model.DailyEntityStats, 0)
	for rows.Next() {
		var stat model.DailyEntityStats
		if err := rows.Scan(&stat.EntityID, &stat.Date, &stat.ReviewCount, &stat.RatingSum); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}

	return stats, nil
}
