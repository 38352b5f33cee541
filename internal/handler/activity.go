package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ratehub/ratehub/internal/handler/dto"
	"github.com/ratehub/ratehub/internal/repository"
)

// ActivityHandler handles review activity API requests.
type ActivityHandler struct {
	repo   *repository.ActivityRepository
	logger *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(repo *repository.ActivityRepository, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		repo:   repo,
		logger: logger.With("component", "handler.activity"),
	}
}

// GetEntityActivity handles GET /api/v1/entities/{id}/activity.
// Public; returns the daily review counts and mean ratings for the entity
// over the requested date range (default: the last 7 days, capped at 90).
func (h *ActivityHandler) GetEntityActivity(w http.ResponseWriter, r *http.Request) {
	entityID, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Entity ID must be a positive integer")
		return
	}

	from, to := h.parseTimeRange(r)

	stats, err := h.repo.GetDailyStats(r.Context(), entityID, from, to)
	if err != nil {
		h.logger.Error("failed to get daily stats", "entity_id", entityID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch activity")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntityActivityResponse(entityID, from, to, stats))
}

// parseTimeRange extracts from/to dates from query params.
func (h *ActivityHandler) parseTimeRange(r *http.Request) (time.Time, time.Time) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			from = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			to = parsed
		}
	}

	// Cap to 90 days max
	if to.Sub(from) > 90*24*time.Hour {
		from = to.AddDate(0, 0, -90)
	}

	// Don't allow future dates
	if to.After(now) {
		to = now
	}

	return from, to
}
