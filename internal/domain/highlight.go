package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultHighlightColor is used when a highlight is created without an
// explicit color tag.
const DefaultHighlightColor = "#ffff00"

// Highlight-specific validation errors
var (
	// ErrHighlightIDEmpty is returned when a highlight ID is empty or nil.
	ErrHighlightIDEmpty = errors.New("highlight ID cannot be empty")

	// ErrHighlightResourceIDEmpty is returned when a highlight's resource ID is empty or nil.
	ErrHighlightResourceIDEmpty = errors.New("highlight resource ID cannot be empty")

	// ErrHighlightTextEmpty is returned when a highlight's selected text is empty.
	ErrHighlightTextEmpty = errors.New("highlight text cannot be empty")
)

// HighlightPosition describes where in the source document a highlight was
// anchored: character offsets plus a structural selector sufficient to
// re-find the anchor.
type HighlightPosition struct {
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Selector    string `json:"selector"`
}

// Highlight represents a user annotation anchored to a resource: the selected
// text, its surrounding context, and a position descriptor. The resource
// reference is a plain identifier; cascade deletion is handled procedurally
// by the owning service.
type Highlight struct {
	ID         uuid.UUID         `json:"id"`
	ResourceID uuid.UUID         `json:"resource_id"`
	URL        string            `json:"url"`
	Text       string            `json:"text"`
	Context    string            `json:"context"`
	Position   HighlightPosition `json:"position"`
	Color      string            `json:"color"`
	Note       string            `json:"note,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewHighlight creates a new Highlight with a fresh ID and current
// timestamps. An empty color falls back to DefaultHighlightColor.
// Returns an error if validation fails.
func NewHighlight(
	resourceID uuid.UUID,
	url, text, context string,
	position HighlightPosition,
	color, note string,
) (*Highlight, error) {
	if color == "" {
		color = DefaultHighlightColor
	}

	now := time.Now().UTC()
	highlight := &Highlight{
		ID:         uuid.New(),
		ResourceID: resourceID,
		URL:        url,
		Text:       text,
		Context:    context,
		Position:   position,
		Color:      color,
		Note:       note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := highlight.Validate(); err != nil {
		return nil, err
	}

	return highlight, nil
}

// Validate checks if the Highlight has valid data.
// Returns an error if any field fails validation.
func (h *Highlight) Validate() error {
	if h.ID == uuid.Nil {
		return ErrHighlightIDEmpty
	}

	if h.ResourceID == uuid.Nil {
		return ErrHighlightResourceIDEmpty
	}

	if h.Text == "" {
		return ErrHighlightTextEmpty
	}

	return nil
}
