package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/handler/dto"
	"github.com/ratehub/ratehub/internal/service"
)

// EntityHandler handles HTTP requests for entity operations.
type EntityHandler struct {
	svc    *service.EntityService
	logger *slog.Logger
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(svc *service.EntityService, logger *slog.Logger) *EntityHandler {
	return &EntityHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/entities.
// Requires authentication; the entity is owned by the caller.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	var req dto.CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	entity, err := h.svc.Create(r.Context(), service.CreateEntityInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}, principal.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("entity_created",
		"entity_id", entity.ID,
		"author_id", principal.UserID,
		"category", entity.Category,
	)

	entity.AuthorUsername = principal.Username
	writeJSON(w, http.StatusCreated, dto.ToEntityResponse(entity))
}

// List handles GET /api/v1/entities.
// Public; supports an optional ?search= term over title and category.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	entities, err := h.svc.List(r.Context(), search)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntityListResponse(entities))
}

// Get handles GET /api/v1/entities/{id}.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Entity ID must be a positive integer")
		return
	}

	entity, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntityResponse(entity))
}

// handleServiceError maps entity service errors to HTTP responses.
func (h *EntityHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEntityNotFound):
		writeError(w, http.StatusNotFound, "ENTITY_NOT_FOUND", "Entity not found")
	case errors.Is(err, service.ErrInvalidTitle),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrDescriptionTooLong):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// parseIDParam parses a positive integer URL parameter.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
