package model

import "time"

// Entity represents a reviewable item (a book, a restaurant, a product).
// AverageRating and ReviewCount are derived from the review set and are
// written only by the review workflow, never by direct edits.
type Entity struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	AverageRating  float64   `json:"average_rating"`
	ReviewCount    int       `json:"review_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// RatingAggregate is the derived summary over an entity's reviews.
// Average is rounded to 2 decimal places; zero reviews yields {0, 0}.
type RatingAggregate struct {
	Average float64
	Count   int
}
