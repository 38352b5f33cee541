package model

import "time"

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a user's rating of an entity.
// At most one review exists per (EntityID, AuthorID) pair; the database
// enforces this with a unique constraint.
type Review struct {
	ID             int64     `json:"id"`
	EntityID       int64     `json:"entity_id"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Rating         int       `json:"rating"`
	Title          string    `json:"title,omitempty"`
	Content        string    `json:"content,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidRating reports whether r is an allowed rating value.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
