package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/api/shared"
	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/service"
)

// FlashcardHandler handles flashcard HTTP requests.
type FlashcardHandler struct {
	flashcards *service.FlashcardService
	logger     *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler.
func NewFlashcardHandler(flashcards *service.FlashcardService, log *slog.Logger) *FlashcardHandler {
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &FlashcardHandler{
		flashcards: flashcards,
		logger:     log.With(slog.String("component", "flashcard_handler")),
	}
}

// Create handles POST /flashcards. With a resource id the card is created
// directly; with only a highlight id it is generated from the highlight.
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var (
		card *domain.Flashcard
		err  error
	)
	switch {
	case req.ResourceID != nil:
		card, err = h.flashcards.CreateFlashcard(r.Context(), *req.ResourceID, req.Front, req.Back, req.HighlightID)
	case req.HighlightID != nil:
		card, err = h.flashcards.CreateFromHighlight(r.Context(), *req.HighlightID, req.Front, req.Back)
	default:
		shared.RespondWithError(w, r, http.StatusBadRequest, "Either resource_id or highlight_id is required")
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// List handles GET /flashcards with optional filters: ?due=true (cards due
// now, soonest first), ?resource_id=.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		cards []*domain.Flashcard
		err   error
	)
	switch {
	case r.URL.Query().Get("due") == "true":
		cards, err = h.flashcards.GetDueFlashcards(r.Context())
	case r.URL.Query().Get("resource_id") != "":
		var resourceID uuid.UUID
		resourceID, err = uuid.Parse(r.URL.Query().Get("resource_id"))
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid resource_id")
			return
		}
		cards, err = h.flashcards.GetFlashcardsByResource(r.Context(), resourceID)
	default:
		cards, err = h.flashcards.GetAllFlashcards(r.Context())
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// Get handles GET /flashcards/{id}.
func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	card, err := h.flashcards.GetFlashcard(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Update handles PATCH /flashcards/{id}.
func (h *FlashcardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.flashcards.UpdateFlashcard(r.Context(), id, service.FlashcardUpdate{
		Front:      req.Front,
		Back:       req.Back,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Review handles POST /flashcards/{id}/review.
func (h *FlashcardHandler) Review(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req ReviewFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.flashcards.ReviewFlashcard(r.Context(), id, *req.Correct)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review recorded",
		slog.String("flashcard_id", id.String()),
		slog.Bool("correct", *req.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Delete handles DELETE /flashcards/{id}.
func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.flashcards.DeleteFlashcard(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
