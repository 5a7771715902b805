package domain

import (
	"time"

	"github.com/google/uuid"
)

// Asset is a binary attachment captured alongside a resource. The current
// core persists the collection but does not populate it; export bundles carry
// an empty asset list for forward compatibility.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	LocalPath   string    `json:"local_path,omitempty"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// Translation is a cached translation of captured text, keyed by content
// fingerprint. Populated by the opaque translation collaborator; the core
// only persists the collection.
type Translation struct {
	ID             uuid.UUID `json:"id"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	ContentHash    string    `json:"content_hash"`
	CreatedAt      time.Time `json:"created_at"`
}
