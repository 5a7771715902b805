package bus

import (
	"time"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/domain"
)

// Kind identifies a message type on the bus. The set is closed: the
// dispatcher rejects anything it has no registered handler for, and payload
// shapes are fixed per kind.
type Kind string

// Message kinds handled by the bus.
const (
	// KindCaptureText requests capture of selected page content as a resource.
	KindCaptureText Kind = "capture_text"

	// KindAddToTrack requests adding a resource to a study track.
	KindAddToTrack Kind = "add_to_track"

	// KindReviewCard requests recording a flashcard review outcome.
	KindReviewCard Kind = "review_card"

	// KindRenderMarkdown requests rendering an export document to markdown.
	// This is the CPU-heavy kind the export service delegates to the worker
	// pool.
	KindRenderMarkdown Kind = "render_markdown"

	// KindTranslateText requests a translation from the opaque translation
	// collaborator.
	KindTranslateText Kind = "translate_text"
)

// Message is the tagged union carried on the bus: each concrete payload
// struct reports its own kind.
type Message interface {
	Kind() Kind
}

// CaptureTextPayload is the payload for KindCaptureText.
type CaptureTextPayload struct {
	Type    domain.ResourceType `json:"type"`
	URL     string              `json:"url"`
	Title   string              `json:"title"`
	Content string              `json:"content,omitempty"`
}

// Kind implements Message.
func (CaptureTextPayload) Kind() Kind { return KindCaptureText }

// AddToTrackPayload is the payload for KindAddToTrack.
type AddToTrackPayload struct {
	TrackID    uuid.UUID `json:"track_id"`
	ResourceID uuid.UUID `json:"resource_id"`
}

// Kind implements Message.
func (AddToTrackPayload) Kind() Kind { return KindAddToTrack }

// ReviewCardPayload is the payload for KindReviewCard.
type ReviewCardPayload struct {
	FlashcardID uuid.UUID `json:"flashcard_id"`
	Correct     bool      `json:"correct"`
}

// Kind implements Message.
func (ReviewCardPayload) Kind() Kind { return KindReviewCard }

// RenderMarkdownPayload is the payload for KindRenderMarkdown: a named
// document plus the pre-built sections to render.
type RenderMarkdownPayload struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
}

// Kind implements Message.
func (RenderMarkdownPayload) Kind() Kind { return KindRenderMarkdown }

// TranslateTextPayload is the payload for KindTranslateText.
type TranslateTextPayload struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language"`
}

// Kind implements Message.
func (TranslateTextPayload) Kind() Kind { return KindTranslateText }

// Request wraps a message submitted to the worker pool with its correlation
// id and reply channel. The worker echoes the id in its Response; the caller
// matches on id.
type Request struct {
	ID        uuid.UUID
	Message   Message
	Reply     chan Response
	CreatedAt time.Time
}

// Response is the worker's answer to a Request: the success payload or an
// error, tagged with the originating request id.
type Response struct {
	ID     uuid.UUID
	Result any
	Err    error
}
