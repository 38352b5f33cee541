package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ratehub/ratehub/internal/activity"
	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/handler/dto"
	"github.com/ratehub/ratehub/internal/service"
)

// ReviewHandler handles HTTP requests for review operations.
type ReviewHandler struct {
	svc       *service.ReviewService
	publisher *activity.Publisher
	logger    *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
// publisher may be nil to disable activity event capture.
func NewReviewHandler(svc *service.ReviewService, publisher *activity.Publisher, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		svc:       svc,
		publisher: publisher,
		logger:    logger,
	}
}

// Create handles POST /api/v1/reviews/{entityId}.
// Requires authentication; one review per user per entity.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	entityID, ok := parseIDParam(r, "entityId")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Entity ID must be a positive integer")
		return
	}

	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	review, err := h.svc.Create(r.Context(), service.CreateReviewInput{
		EntityID: entityID,
		Rating:   req.Rating,
		Title:    req.Title,
		Content:  req.Content,
	}, principal.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("review_created",
		"review_id", review.ID,
		"entity_id", review.EntityID,
		"author_id", principal.UserID,
		"rating", review.Rating,
	)

	// Fire-and-forget; the response never waits on the stream.
	if h.publisher != nil {
		h.publisher.PublishAsync(activity.NewReviewEventPayload(review))
	}

	review.AuthorUsername = principal.Username
	writeJSON(w, http.StatusCreated, dto.ToReviewResponse(review))
}

// ListByEntity handles GET /api/v1/reviews/{entityId}.
// Public; newest first. An entity with no reviews returns an empty list.
func (h *ReviewHandler) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityID, ok := parseIDParam(r, "entityId")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Entity ID must be a positive integer")
		return
	}

	reviews, err := h.svc.ListByEntity(r.Context(), entityID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToReviewListResponse(reviews))
}

// handleServiceError maps review service errors to HTTP responses.
func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEntityNotFound):
		writeError(w, http.StatusNotFound, "ENTITY_NOT_FOUND", "Entity not found")
	case errors.Is(err, service.ErrDuplicateReview):
		writeError(w, http.StatusConflict, "DUPLICATE_REVIEW", "You have already reviewed this entity")
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrReviewTitleTooLong),
		errors.Is(err, service.ErrReviewContentTooLong):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
