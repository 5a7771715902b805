// Package api provides HTTP handlers for the browser-integration surface.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/api/shared"
)

// validate is the shared validator for request bodies.
var validate = validator.New()

// CreateResourceRequest is the request body for capturing a resource.
type CreateResourceRequest struct {
	Type    string                  `json:"type" validate:"required,oneof=page video pdf"`
	URL     string                  `json:"url" validate:"required,url"`
	Title   string                  `json:"title" validate:"required"`
	Content string                  `json:"content"`
	Meta    ResourceMetadataRequest `json:"metadata"`
}

// ResourceMetadataRequest carries optional caller-supplied metadata.
type ResourceMetadataRequest struct {
	Domain      string     `json:"domain"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at"`
	Duration    int        `json:"duration"`
	WordCount   int        `json:"word_count"`
	Language    string     `json:"language"`
}

// UpdateResourceProgressRequest is the request body for a progress update.
// Absent fields are left untouched.
type UpdateResourceProgressRequest struct {
	TimeSpent            *int64     `json:"time_spent"`
	LastVisited          *time.Time `json:"last_visited"`
	CompletionPercentage *int       `json:"completion_percentage" validate:"omitempty,min=0,max=100"`
	ReviewCount          *int       `json:"review_count" validate:"omitempty,min=0"`
}

// CreateHighlightRequest is the request body for recording a highlight.
type CreateHighlightRequest struct {
	ResourceID uuid.UUID                `json:"resource_id" validate:"required"`
	URL        string                   `json:"url"`
	Text       string                   `json:"text" validate:"required"`
	Context    string                   `json:"context"`
	Position   HighlightPositionRequest `json:"position"`
	Color      string                   `json:"color"`
	Note       string                   `json:"note"`
}

// HighlightPositionRequest carries the position descriptor of a highlight.
type HighlightPositionRequest struct {
	StartOffset int    `json:"start_offset" validate:"min=0"`
	EndOffset   int    `json:"end_offset" validate:"min=0"`
	Selector    string `json:"selector"`
}

// UpdateHighlightRequest is the request body for a partial highlight update.
type UpdateHighlightRequest struct {
	Text  *string `json:"text"`
	Note  *string `json:"note"`
	Color *string `json:"color"`
}

// CreateTrackRequest is the request body for creating a study track.
type CreateTrackRequest struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Objective     string   `json:"objective"`
	Prerequisites []string `json:"prerequisites"`
	IsTemplate    bool     `json:"is_template"`
}

// AddTrackResourceRequest is the request body for adding a resource to a
// track.
type AddTrackResourceRequest struct {
	ResourceID uuid.UUID `json:"resource_id" validate:"required"`
}

// AddMilestoneRequest is the request body for appending a milestone.
type AddMilestoneRequest struct {
	Name              string      `json:"name" validate:"required"`
	Description       string      `json:"description"`
	RequiredResources []uuid.UUID `json:"required_resources"`
}

// UpdateTrackProgressRequest is the request body for a track progress
// update. Absent fields are left untouched.
type UpdateTrackProgressRequest struct {
	CurrentMilestone   *int        `json:"current_milestone" validate:"omitempty,min=0"`
	CompletedResources []uuid.UUID `json:"completed_resources"`
	CompletedLessons   *int        `json:"completed_lessons" validate:"omitempty,min=0"`
	TotalTimeSpent     *int64      `json:"total_time_spent" validate:"omitempty,min=0"`
}

// DuplicateTrackRequest is the request body for duplicating a template.
type DuplicateTrackRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateFlashcardRequest is the request body for creating a flashcard. With
// a resource id, a card is created directly; with only a highlight id, the
// card is generated from the highlight.
type CreateFlashcardRequest struct {
	ResourceID  *uuid.UUID `json:"resource_id"`
	HighlightID *uuid.UUID `json:"highlight_id"`
	Front       string     `json:"front"`
	Back        string     `json:"back"`
}

// UpdateFlashcardRequest is the request body for a partial flashcard update.
type UpdateFlashcardRequest struct {
	Front      *string  `json:"front"`
	Back       *string  `json:"back"`
	Difficulty *float64 `json:"difficulty" validate:"omitempty,min=1,max=5"`
}

// ReviewFlashcardRequest is the request body for recording a review.
type ReviewFlashcardRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// decodeAndValidate decodes the request body into v and validates it,
// writing the error response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}

// parseIDParam parses a uuid URL parameter, writing the error response when
// it is malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
