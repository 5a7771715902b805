package srs

import (
	"errors"
	"time"

	"github.com/notumhq/notum/internal/domain"
)

// Common errors
var (
	ErrNilCard = errors.New("flashcard cannot be nil")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// Review computes the card's state after a review outcome: updated
	// counters, adjusted difficulty and the next review timestamp.
	// The input card is not modified.
	Review(card *domain.Flashcard, correct bool, now time.Time) (*domain.Flashcard, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// Review implements the Service interface. The interval is computed from the
// review count and difficulty as they were before this review; the difficulty
// adjustment applies afterwards.
func (s *defaultService) Review(
	card *domain.Flashcard,
	correct bool,
	now time.Time,
) (*domain.Flashcard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	priorReviews := card.ReviewCount
	priorDifficulty := card.Difficulty

	next := *card
	next.ReviewCount = priorReviews + 1
	if correct {
		next.CorrectCount = card.CorrectCount + 1
	}

	next.Difficulty = adjustDifficulty(priorDifficulty, correct, priorReviews, s.params)

	interval := nextIntervalDays(priorReviews, priorDifficulty, correct, s.params)
	next.NextReview = nextReviewAt(now, interval)
	next.UpdatedAt = now

	return &next, nil
}
