package api

import (
	"log/slog"
	"net/http"

	"github.com/notumhq/notum/internal/api/shared"
	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/service"
)

// TrackHandler handles study-track HTTP requests.
type TrackHandler struct {
	tracks *service.TrackService
	logger *slog.Logger
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(tracks *service.TrackService, log *slog.Logger) *TrackHandler {
	if tracks == nil {
		panic("tracks cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TrackHandler{
		tracks: tracks,
		logger: log.With(slog.String("component", "track_handler")),
	}
}

// Create handles POST /tracks.
func (h *TrackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTrackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	track, err := h.tracks.CreateTrack(
		r.Context(), req.Name, req.Description, req.Objective, req.Prerequisites, req.IsTemplate)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, track)
}

// List handles GET /tracks with an optional ?templates= filter (true lists
// templates, false lists user tracks).
func (h *TrackHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		tracks []*domain.StudyTrack
		err    error
	)
	switch r.URL.Query().Get("templates") {
	case "true":
		tracks, err = h.tracks.GetTemplates(r.Context())
	case "false":
		tracks, err = h.tracks.GetUserTracks(r.Context())
	default:
		tracks, err = h.tracks.GetAllTracks(r.Context())
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tracks)
}

// Get handles GET /tracks/{id}.
func (h *TrackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	track, err := h.tracks.GetTrack(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, track)
}

// AddResource handles POST /tracks/{id}/resources.
func (h *TrackHandler) AddResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req AddTrackResourceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	track, err := h.tracks.AddResourceToTrack(r.Context(), id, req.ResourceID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, track)
}

// RemoveResource handles DELETE /tracks/{id}/resources/{resourceID}.
func (h *TrackHandler) RemoveResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	resourceID, ok := parseIDParam(w, r, "resourceID")
	if !ok {
		return
	}

	track, err := h.tracks.RemoveResourceFromTrack(r.Context(), id, resourceID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, track)
}

// AddMilestone handles POST /tracks/{id}/milestones.
func (h *TrackHandler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req AddMilestoneRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	track, err := h.tracks.AddMilestone(r.Context(), id, req.Name, req.Description, req.RequiredResources)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, track)
}

// CompleteMilestone handles POST /tracks/{id}/milestones/{milestoneID}/complete.
// Re-completing an already-completed milestone is an idempotent success.
func (h *TrackHandler) CompleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	milestoneID, ok := parseIDParam(w, r, "milestoneID")
	if !ok {
		return
	}

	track, err := h.tracks.CompleteMilestone(r.Context(), id, milestoneID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, track)
}

// UpdateProgress handles PATCH /tracks/{id}/progress.
func (h *TrackHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTrackProgressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	track, err := h.tracks.UpdateProgress(r.Context(), id, service.TrackProgressUpdate{
		CurrentMilestone:   req.CurrentMilestone,
		CompletedResources: req.CompletedResources,
		CompletedLessons:   req.CompletedLessons,
		TotalTimeSpent:     req.TotalTimeSpent,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, track)
}

// Duplicate handles POST /tracks/{id}/duplicate.
func (h *TrackHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req DuplicateTrackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	track, err := h.tracks.DuplicateTemplate(r.Context(), id, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, track)
}

// Delete handles DELETE /tracks/{id}. Member resources are untouched.
func (h *TrackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.tracks.DeleteTrack(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
