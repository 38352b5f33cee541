// Package activity provides review event capture and processing.
package activity

import (
	"fmt"

	"github.com/ratehub/ratehub/internal/model"
)

// ValidateReviewEventPayload validates review event payload fields.
func ValidateReviewEventPayload(payload ReviewEventPayload) error {
	if payload.EntityID <= 0 {
		return fmt.Errorf("entity_id must be positive")
	}
	if payload.ReviewID <= 0 {
		return fmt.Errorf("review_id must be positive")
	}
	if payload.AuthorID <= 0 {
		return fmt.Errorf("author_id must be positive")
	}
	if !model.ValidRating(payload.Rating) {
		return fmt.Errorf("rating out of bounds")
	}
	if payload.OccurredAt <= 0 {
		return fmt.Errorf("occurred_at must be set")
	}
	return nil
}
