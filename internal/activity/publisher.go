// Package activity provides review event capture and processing.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ratehub/ratehub/internal/metrics"
	"github.com/ratehub/ratehub/internal/model"
)

const (
	// StreamKey is the Redis stream for review events.
	StreamKey = "stream:review_events"

	// DeadLetterStreamKey is the Redis stream for poison messages.
	DeadLetterStreamKey = "stream:review_events:dlq"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// ReviewEventPayload is the compressed event format for the Redis stream.
type ReviewEventPayload struct {
	EntityID   int64 `json:"eid"`
	ReviewID   int64 `json:"rid"`
	AuthorID   int64 `json:"aid"`
	Rating     int   `json:"rt"`
	OccurredAt int64 `json:"t"` // Unix milliseconds
}

// NewReviewEventPayload builds a payload from a freshly persisted review.
func NewReviewEventPayload(review *model.Review) ReviewEventPayload {
	return ReviewEventPayload{
		EntityID:   review.EntityID,
		ReviewID:   review.ID,
		AuthorID:   review.AuthorID,
		Rating:     review.Rating,
		OccurredAt: review.CreatedAt.UnixMilli(),
	}
}

// Publisher enqueues review events to the Redis stream.
type Publisher struct {
	redis   *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a new activity event publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "activity.publisher"),
		metrics: recorder,
	}
}

// Publish adds a review event to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, event ReviewEventPayload) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true, // ~MAXLEN for performance
		ID:     "*",  // Auto-generate ID
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()

	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned (fire-and-forget).
func (p *Publisher) PublishAsync(event ReviewEventPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, event)
		if err != nil {
			p.logger.Warn("failed to publish review event",
				"entity_id", event.EntityID,
				"review_id", event.ReviewID,
				"error", err,
			)
			p.metrics.IncReviewEventPublished("dropped")
			return
		}

		p.logger.Debug("review event published",
			"entity_id", event.EntityID,
			"review_id", event.ReviewID,
			"stream_id", streamID,
		)
		p.metrics.IncReviewEventPublished("success")
	}()
}
