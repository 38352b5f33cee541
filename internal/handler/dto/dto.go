// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"math"
	"time"

	"github.com/ratehub/ratehub/internal/model"
)

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents a successful register/login response.
type AuthResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// CreateEntityRequest represents the request body for creating an entity.
type CreateEntityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
}

// EntityResponse represents an entity in API responses.
type EntityResponse struct {
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

// CreateReviewRequest represents the request body for submitting a review.
// The entity ID comes from the URL path, not the body.
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// ReviewResponse represents a review in API responses.
type ReviewResponse struct {
	ID             int64     `json:"id"`
	EntityID       int64     `json:"entity_id"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Rating         int       `json:"rating"`
	Title          string    `json:"title,omitempty"`
	Content        string    `json:"content,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DailyActivity is one day of review activity in an activity response.
type DailyActivity struct {
	Date          string  `json:"date"`
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// EntityActivityResponse represents the review activity for an entity
// over a date range. Days with no reviews are omitted.
type EntityActivityResponse struct {
	EntityID int64           `json:"entity_id"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Days     []DailyActivity `json:"days"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToEntityResponse converts an Entity model to EntityResponse DTO.
func ToEntityResponse(entity *model.Entity) *EntityResponse {
	return &EntityResponse{
		ID:             entity.ID,
		Title:          entity.Title,
		Description:    entity.Description,
		Category:       entity.Category,
		AuthorID:       entity.AuthorID,
		AuthorUsername: entity.AuthorUsername,
		AverageRating:  entity.AverageRating,
		ReviewCount:    entity.ReviewCount,
		CreatedAt:      entity.CreatedAt,
	}
}

// ToEntityListResponse converts a slice of Entity models to DTOs.
func ToEntityListResponse(entities []*model.Entity) []EntityResponse {
	responses := make([]EntityResponse, len(entities))
	for i, entity := range entities {
		responses[i] = *ToEntityResponse(entity)
	}
	return responses
}

// ToReviewResponse converts a Review model to ReviewResponse DTO.
func ToReviewResponse(review *model.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:             review.ID,
		EntityID:       review.EntityID,
		AuthorID:       review.AuthorID,
		AuthorUsername: review.AuthorUsername,
		Rating:         review.Rating,
		Title:          review.Title,
		Content:        review.Content,
		CreatedAt:      review.CreatedAt,
	}
}

// ToEntityActivityResponse converts daily stats rows to an activity response.
func ToEntityActivityResponse(entityID int64, from, to time.Time, stats []*model.DailyEntityStats) *EntityActivityResponse {
	days := make([]DailyActivity, len(stats))
	for i, stat := range stats {
		days[i] = DailyActivity{
			Date:          stat.Date.UTC().Format("2006-01-02"),
			ReviewCount:   stat.ReviewCount,
			AverageRating: math.Round(stat.AverageRating()*100) / 100,
		}
	}
	return &EntityActivityResponse{
		EntityID: entityID,
		From:     from.UTC().Format("2006-01-02"),
		To:       to.UTC().Format("2006-01-02"),
		Days:     days,
	}
}

// ToReviewListResponse converts a slice of Review models to DTOs.
func ToReviewListResponse(reviews []*model.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		responses[i] = *ToReviewResponse(review)
	}
	return responses
}
