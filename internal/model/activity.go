package model

import "time"

// ReviewEvent is a review-created event captured off the request path and
// persisted by the activity worker. EventID is the Redis stream ID, which
// doubles as the idempotency key.
type ReviewEvent struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"event_id"`
	EntityID   int64     `json:"entity_id"`
	ReviewID   int64     `json:"review_id"`
	AuthorID   int64     `json:"author_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DailyEntityStats is one day of review activity for an entity,
// recomputed from the persisted event set.
type DailyEntityStats struct {
	EntityID    int64     `json:"entity_id"`
	Date        time.Time `json:"date"`
	ReviewCount int64     `json:"review_count"`
	RatingSum   int64     `json:"rating_sum"`
}

// AverageRating returns the day's mean rating, or 0 for a day with no reviews.
func (s *DailyEntityStats) AverageRating() float64 {
	if s.ReviewCount == 0 {
		return 0
	}
	return float64(s.RatingSum) / float64(s.ReviewCount)
}
