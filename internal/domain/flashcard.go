package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Flashcard difficulty bounds. Difficulty is clamped to this range after
// every review.
const (
	MinFlashcardDifficulty = 1.0
	MaxFlashcardDifficulty = 5.0

	// DefaultFlashcardDifficulty is the difficulty new cards start at.
	DefaultFlashcardDifficulty = 3.0
)

// Flashcard-specific validation errors
var (
	// ErrFlashcardIDEmpty is returned when a flashcard ID is empty or nil.
	ErrFlashcardIDEmpty = errors.New("flashcard ID cannot be empty")

	// ErrFlashcardResourceIDEmpty is returned when a flashcard's resource ID is empty or nil.
	ErrFlashcardResourceIDEmpty = errors.New("flashcard resource ID cannot be empty")

	// ErrFlashcardFrontEmpty is returned when a flashcard's front text is empty.
	ErrFlashcardFrontEmpty = errors.New("flashcard front cannot be empty")

	// ErrFlashcardBackEmpty is returned when a flashcard's back text is empty.
	ErrFlashcardBackEmpty = errors.New("flashcard back cannot be empty")

	// ErrFlashcardDifficultyRange is returned when a difficulty is outside [1, 5].
	ErrFlashcardDifficultyRange = errors.New("flashcard difficulty must be between 1 and 5")
)

// Flashcard is a spaced-repetition unit anchored to a resource and optionally
// to a highlight. A card is "due" when NextReview is at or before now and
// "scheduled" otherwise; every review moves it to a computed future point.
type Flashcard struct {
	ID           uuid.UUID  `json:"id"`
	ResourceID   uuid.UUID  `json:"resource_id"`
	HighlightID  *uuid.UUID `json:"highlight_id,omitempty"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Difficulty   float64    `json:"difficulty"`
	NextReview   time.Time  `json:"next_review"`
	ReviewCount  int        `json:"review_count"`
	CorrectCount int        `json:"correct_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with a fresh ID, default difficulty,
// zeroed counters and NextReview set to now, making it immediately due.
// Returns an error if validation fails.
func NewFlashcard(resourceID uuid.UUID, front, back string, highlightID *uuid.UUID) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:          uuid.New(),
		ResourceID:  resourceID,
		HighlightID: highlightID,
		Front:       front,
		Back:        back,
		Difficulty:  DefaultFlashcardDifficulty,
		NextReview:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if c.ResourceID == uuid.Nil {
		return ErrFlashcardResourceIDEmpty
	}

	if c.Front == "" {
		return ErrFlashcardFrontEmpty
	}

	if c.Back == "" {
		return ErrFlashcardBackEmpty
	}

	if c.Difficulty < MinFlashcardDifficulty || c.Difficulty > MaxFlashcardDifficulty {
		return ErrFlashcardDifficultyRange
	}

	return nil
}

// IsDue reports whether the card is due for review at the given time.
func (c *Flashcard) IsDue(now time.Time) bool {
	return !c.NextReview.After(now)
}
