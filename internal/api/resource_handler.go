package api

import (
	"log/slog"
	"net/http"

	"github.com/notumhq/notum/internal/api/shared"
	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/service"
)

// ResourceHandler handles resource-related HTTP requests.
type ResourceHandler struct {
	resources *service.ResourceService
	logger    *slog.Logger
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resources *service.ResourceService, log *slog.Logger) *ResourceHandler {
	if resources == nil {
		panic("resources cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ResourceHandler{
		resources: resources,
		logger:    log.With(slog.String("component", "resource_handler")),
	}
}

// Create handles POST /resources. A capture whose content fingerprint
// matches an existing resource returns that resource instead of creating a
// new one.
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateResourceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	metadata := domain.ResourceMetadata{
		Domain:      req.Meta.Domain,
		Author:      req.Meta.Author,
		PublishedAt: req.Meta.PublishedAt,
		Duration:    req.Meta.Duration,
		WordCount:   req.Meta.WordCount,
		Language:    req.Meta.Language,
	}

	resource, err := h.resources.CreateResource(
		r.Context(), domain.ResourceType(req.Type), req.URL, req.Title, req.Content, metadata)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("resource captured", slog.String("resource_id", resource.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, resource)
}

// List handles GET /resources with optional filters: ?url= (exact lookup),
// ?q= (substring search), ?type= (exact type filter).
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	if url := r.URL.Query().Get("url"); url != "" {
		resource, err := h.resources.GetResourceByURL(r.Context(), url)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, resource)
		return
	}

	var (
		resources []*domain.Resource
		err       error
	)
	switch {
	case r.URL.Query().Get("q") != "":
		resources, err = h.resources.SearchResources(r.Context(), r.URL.Query().Get("q"))
	case r.URL.Query().Get("type") != "":
		resources, err = h.resources.GetResourcesByType(r.Context(), domain.ResourceType(r.URL.Query().Get("type")))
	default:
		resources, err = h.resources.GetAllResources(r.Context())
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resources)
}

// Get handles GET /resources/{id}.
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	resource, err := h.resources.GetResource(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resource)
}

// UpdateProgress handles PATCH /resources/{id}/progress.
func (h *ResourceHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateResourceProgressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resource, err := h.resources.UpdateProgress(r.Context(), id, service.ProgressUpdate{
		TimeSpent:            req.TimeSpent,
		LastVisited:          req.LastVisited,
		CompletionPercentage: req.CompletionPercentage,
		ReviewCount:          req.ReviewCount,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resource)
}

// Delete handles DELETE /resources/{id}. Owned highlights and flashcards go
// with it.
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.resources.DeleteResource(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
