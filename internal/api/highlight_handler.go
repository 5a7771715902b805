package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/api/shared"
	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/service"
)

// HighlightHandler handles highlight-related HTTP requests.
type HighlightHandler struct {
	highlights *service.HighlightService
	logger     *slog.Logger
}

// NewHighlightHandler creates a new HighlightHandler.
func NewHighlightHandler(highlights *service.HighlightService, log *slog.Logger) *HighlightHandler {
	if highlights == nil {
		panic("highlights cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &HighlightHandler{
		highlights: highlights,
		logger:     log.With(slog.String("component", "highlight_handler")),
	}
}

// Create handles POST /highlights.
func (h *HighlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateHighlightRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	highlight, err := h.highlights.CreateHighlight(
		r.Context(), req.ResourceID, req.URL, req.Text, req.Context,
		domain.HighlightPosition{
			StartOffset: req.Position.StartOffset,
			EndOffset:   req.Position.EndOffset,
			Selector:    req.Position.Selector,
		},
		req.Color, req.Note)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, highlight)
}

// List handles GET /highlights with optional filters: ?resource_id=,
// ?q= (substring search), ?color= (exact color filter).
func (h *HighlightHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		highlights []*domain.Highlight
		err        error
	)
	switch {
	case r.URL.Query().Get("resource_id") != "":
		var resourceID uuid.UUID
		resourceID, err = uuid.Parse(r.URL.Query().Get("resource_id"))
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid resource_id")
			return
		}
		highlights, err = h.highlights.GetHighlightsByResource(r.Context(), resourceID)
	case r.URL.Query().Get("q") != "":
		highlights, err = h.highlights.SearchHighlights(r.Context(), r.URL.Query().Get("q"))
	case r.URL.Query().Get("color") != "":
		highlights, err = h.highlights.GetHighlightsByColor(r.Context(), r.URL.Query().Get("color"))
	default:
		highlights, err = h.highlights.GetAllHighlights(r.Context())
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, highlights)
}

// Get handles GET /highlights/{id}.
func (h *HighlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	highlight, err := h.highlights.GetHighlight(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, highlight)
}

// Update handles PATCH /highlights/{id}.
func (h *HighlightHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateHighlightRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	highlight, err := h.highlights.UpdateHighlight(r.Context(), id, service.HighlightUpdate{
		Text:  req.Text,
		Note:  req.Note,
		Color: req.Color,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, highlight)
}

// Delete handles DELETE /highlights/{id}. Flashcards generated from the
// highlight go with it.
func (h *HighlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.highlights.DeleteHighlight(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
