package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ResourceType identifies the kind of content a resource captured.
type ResourceType string

// Possible resource types.
const (
	ResourceTypePage  ResourceType = "page"
	ResourceTypeVideo ResourceType = "video"
	ResourceTypePDF   ResourceType = "pdf"
)

// Resource-specific validation errors
var (
	// ErrResourceIDEmpty is returned when a resource ID is empty or nil.
	ErrResourceIDEmpty = errors.New("resource ID cannot be empty")

	// ErrResourceURLEmpty is returned when a resource URL is empty.
	ErrResourceURLEmpty = errors.New("resource URL cannot be empty")

	// ErrResourceTitleEmpty is returned when a resource title is empty.
	ErrResourceTitleEmpty = errors.New("resource title cannot be empty")

	// ErrInvalidResourceType is returned when a resource type is not valid.
	ErrInvalidResourceType = errors.New("invalid resource type")
)

// ResourceMetadata holds descriptive attributes extracted from the captured
// content. Domain and WordCount are derived when the caller does not supply
// them.
type ResourceMetadata struct {
	Domain      string     `json:"domain"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Duration    int        `json:"duration,omitempty"` // seconds, for videos
	WordCount   int        `json:"word_count,omitempty"`
	Language    string     `json:"language,omitempty"`
}

// StudyProgress tracks how far the user has worked through a resource.
type StudyProgress struct {
	TimeSpent            int64     `json:"time_spent"` // seconds
	LastVisited          time.Time `json:"last_visited"`
	CompletionPercentage int       `json:"completion_percentage"`
	ReviewCount          int       `json:"review_count"`
}

// Resource represents a captured unit of web content: a page, video or PDF.
// The content fingerprint is unique across resources and drives capture
// deduplication.
type Resource struct {
	ID            uuid.UUID        `json:"id"`
	Type          ResourceType     `json:"type"`
	URL           string           `json:"url"`
	Title         string           `json:"title"`
	Content       string           `json:"content,omitempty"`
	Metadata      ResourceMetadata `json:"metadata"`
	ContentHash   string           `json:"content_hash"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	StudyProgress StudyProgress    `json:"study_progress"`
}

// NewResource creates a new Resource with a fresh ID, the given attributes,
// zeroed study progress and current timestamps. The content hash must be
// computed by the caller (see ContentFingerprint).
// Returns an error if validation fails.
func NewResource(
	typ ResourceType,
	url, title, content, contentHash string,
	metadata ResourceMetadata,
) (*Resource, error) {
	now := time.Now().UTC()
	resource := &Resource{
		ID:          uuid.New(),
		Type:        typ,
		URL:         url,
		Title:       title,
		Content:     content,
		Metadata:    metadata,
		ContentHash: contentHash,
		CreatedAt:   now,
		UpdatedAt:   now,
		StudyProgress: StudyProgress{
			LastVisited: now,
		},
	}

	if err := resource.Validate(); err != nil {
		return nil, err
	}

	return resource, nil
}

// Validate checks if the Resource has valid data.
// Returns an error if any field fails validation.
func (r *Resource) Validate() error {
	if r.ID == uuid.Nil {
		return ErrResourceIDEmpty
	}

	if !isValidResourceType(r.Type) {
		return ErrInvalidResourceType
	}

	if r.URL == "" {
		return ErrResourceURLEmpty
	}

	if r.Title == "" {
		return ErrResourceTitleEmpty
	}

	return nil
}

// isValidResourceType checks if the given type is a valid ResourceType.
func isValidResourceType(typ ResourceType) bool {
	switch typ {
	case ResourceTypePage, ResourceTypeVideo, ResourceTypePDF:
		return true
	default:
		return false
	}
}
