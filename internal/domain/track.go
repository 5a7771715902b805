package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TrackDifficulty is the difficulty tier of a study track.
type TrackDifficulty string

// Possible track difficulty tiers.
const (
	TrackDifficultyBeginner     TrackDifficulty = "beginner"
	TrackDifficultyIntermediate TrackDifficulty = "intermediate"
	TrackDifficultyAdvanced     TrackDifficulty = "advanced"
)

// Track-specific validation errors
var (
	// ErrTrackIDEmpty is returned when a track ID is empty or nil.
	ErrTrackIDEmpty = errors.New("track ID cannot be empty")

	// ErrTrackNameEmpty is returned when a track name is empty.
	ErrTrackNameEmpty = errors.New("track name cannot be empty")

	// ErrInvalidTrackDifficulty is returned when a difficulty tier is not valid.
	ErrInvalidTrackDifficulty = errors.New("invalid track difficulty")
)

// Milestone is an ordered checkpoint within a study track. Order is assigned
// at append time as the current milestone count and is never reused.
type Milestone struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	RequiredResources []uuid.UUID `json:"required_resources"`
	Order             int         `json:"order"`
	Completed         bool        `json:"completed"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
}

// TrackProgress tracks the user's advancement through a study track.
// CompletedAt is set at most once, when every milestone is completed.
type TrackProgress struct {
	CurrentMilestone   int         `json:"current_milestone"`
	CompletedResources []uuid.UUID `json:"completed_resources"`
	CompletedLessons   int         `json:"completed_lessons"`
	TotalTimeSpent     int64       `json:"total_time_spent"` // seconds
	StartedAt          *time.Time  `json:"started_at,omitempty"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
}

// StudyTrack represents a curated learning path: an ordered set of member
// resources plus milestones. A track marked as a template is a reusable
// blueprint; duplicating it produces an independent non-template track.
// Tracks reference resources but do not own them.
type StudyTrack struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Objective     string          `json:"objective"`
	Prerequisites []string        `json:"prerequisites"`
	Resources     []uuid.UUID     `json:"resources"`
	Difficulty    TrackDifficulty `json:"difficulty"`
	Milestones    []Milestone     `json:"milestones"`
	IsTemplate    bool            `json:"is_template"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Progress      TrackProgress   `json:"progress"`
}

// NewStudyTrack creates a new StudyTrack with a fresh ID, empty resource and
// milestone lists, zeroed progress and current timestamps.
// Returns an error if validation fails.
func NewStudyTrack(
	name, description, objective string,
	prerequisites []string,
	isTemplate bool,
) (*StudyTrack, error) {
	if prerequisites == nil {
		prerequisites = []string{}
	}

	now := time.Now().UTC()
	track := &StudyTrack{
		ID:            uuid.New(),
		Name:          name,
		Description:   description,
		Objective:     objective,
		Prerequisites: prerequisites,
		Resources:     []uuid.UUID{},
		Difficulty:    TrackDifficultyBeginner,
		Milestones:    []Milestone{},
		IsTemplate:    isTemplate,
		CreatedAt:     now,
		UpdatedAt:     now,
		Progress: TrackProgress{
			CompletedResources: []uuid.UUID{},
		},
	}

	if err := track.Validate(); err != nil {
		return nil, err
	}

	return track, nil
}

// Validate checks if the StudyTrack has valid data.
// Returns an error if any field fails validation.
func (t *StudyTrack) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTrackIDEmpty
	}

	if t.Name == "" {
		return ErrTrackNameEmpty
	}

	if !isValidTrackDifficulty(t.Difficulty) {
		return ErrInvalidTrackDifficulty
	}

	return nil
}

// AppendMilestone adds a milestone at the end of the list with a fresh ID and
// order equal to the current milestone count, and returns it.
func (t *StudyTrack) AppendMilestone(name, description string, requiredResources []uuid.UUID) Milestone {
	if requiredResources == nil {
		requiredResources = []uuid.UUID{}
	}

	milestone := Milestone{
		ID:                uuid.New(),
		Name:              name,
		Description:       description,
		RequiredResources: requiredResources,
		Order:             len(t.Milestones),
	}
	t.Milestones = append(t.Milestones, milestone)
	return milestone
}

// IsCompleted reports whether every milestone of the track is completed.
// A track with no milestones is not considered completed.
func (t *StudyTrack) IsCompleted() bool {
	if len(t.Milestones) == 0 {
		return false
	}
	for _, m := range t.Milestones {
		if !m.Completed {
			return false
		}
	}
	return true
}

// isValidTrackDifficulty checks if the given tier is a valid TrackDifficulty.
func isValidTrackDifficulty(d TrackDifficulty) bool {
	switch d {
	case TrackDifficultyBeginner, TrackDifficultyIntermediate, TrackDifficultyAdvanced:
		return true
	default:
		return false
	}
}
