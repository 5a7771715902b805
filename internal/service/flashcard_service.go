package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/domain/srs"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// FlashcardService manages spaced-repetition cards and owns the review flow:
// the scheduler computes the outcome and the result is persisted as one
// atomic record update.
type FlashcardService struct {
	flashcards store.FlashcardStore
	highlights store.HighlightStore
	scheduler  srs.Service
	logger     *slog.Logger
}

// NewFlashcardService creates a new FlashcardService.
func NewFlashcardService(
	flashcards store.FlashcardStore,
	highlights store.HighlightStore,
	scheduler srs.Service,
	log *slog.Logger,
) *FlashcardService {
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if highlights == nil {
		panic("highlights cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &FlashcardService{
		flashcards: flashcards,
		highlights: highlights,
		scheduler:  scheduler,
		logger:     log.With(slog.String("component", "flashcard_service")),
	}
}

// CreateFlashcard creates a new card with default difficulty, zeroed counters
// and NextReview set to now, so it is immediately due.
func (s *FlashcardService) CreateFlashcard(
	ctx context.Context,
	resourceID uuid.UUID,
	front, back string,
	highlightID *uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewFlashcard(resourceID, front, back, highlightID)
	if err != nil {
		return nil, err
	}

	if err := s.flashcards.Create(ctx, card); err != nil {
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("resource_id", resourceID.String()))
		return nil, fmt.Errorf("failed to create flashcard: %w", err)
	}

	log.Debug("flashcard created", slog.String("flashcard_id", card.ID.String()))
	return card, nil
}

// CreateFromHighlight generates a card from an existing highlight, anchored
// to both the highlight and its resource. An empty front falls back to the
// highlight's note, then to a generic prompt; an empty back falls back to
// the highlighted text.
// Returns store.ErrHighlightNotFound if the highlight does not exist.
func (s *FlashcardService) CreateFromHighlight(ctx context.Context, highlightID uuid.UUID, front, back string) (*domain.Flashcard, error) {
	highlight, err := s.highlights.GetByID(ctx, highlightID)
	if err != nil {
		return nil, err
	}

	if front == "" {
		front = highlight.Note
	}
	if front == "" {
		front = fmt.Sprintf("What did you highlight on %s?", highlight.URL)
	}
	if back == "" {
		back = highlight.Text
	}

	return s.CreateFlashcard(ctx, highlight.ResourceID, front, back, &highlight.ID)
}

// GetFlashcard retrieves a card by id.
// Returns store.ErrFlashcardNotFound if it does not exist.
func (s *FlashcardService) GetFlashcard(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	return s.flashcards.GetByID(ctx, id)
}

// GetFlashcardsByResource returns a resource's cards, oldest-first.
func (s *FlashcardService) GetFlashcardsByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.Flashcard, error) {
	return s.flashcards.GetByResource(ctx, resourceID)
}

// GetDueFlashcards returns all cards due now, soonest-due-first.
func (s *FlashcardService) GetDueFlashcards(ctx context.Context) ([]*domain.Flashcard, error) {
	return s.flashcards.GetDue(ctx, time.Now().UTC())
}

// GetAllFlashcards returns all cards, newest-created-first.
func (s *FlashcardService) GetAllFlashcards(ctx context.Context) ([]*domain.Flashcard, error) {
	return s.flashcards.GetAll(ctx)
}

// FlashcardUpdate carries the fields an UpdateFlashcard call wants to
// change; nil fields are left untouched.
type FlashcardUpdate struct {
	Front      *string
	Back       *string
	Difficulty *float64
}

// UpdateFlashcard merges the supplied fields into the stored card.
func (s *FlashcardService) UpdateFlashcard(ctx context.Context, id uuid.UUID, update FlashcardUpdate) (*domain.Flashcard, error) {
	card, err := s.flashcards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Front != nil {
		card.Front = *update.Front
	}
	if update.Back != nil {
		card.Back = *update.Back
	}
	if update.Difficulty != nil {
		card.Difficulty = *update.Difficulty
	}

	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update flashcard: %w", err)
	}

	return card, nil
}

// ReviewFlashcard records a review outcome: the scheduler bumps the
// counters, adjusts difficulty and computes the next review date, and the
// whole result is persisted as one record update.
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *FlashcardService) ReviewFlashcard(ctx context.Context, id uuid.UUID, correct bool) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.flashcards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewed, err := s.scheduler.Review(card, correct, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to compute review schedule: %w", err)
	}

	if err := s.flashcards.Update(ctx, reviewed); err != nil {
		return nil, fmt.Errorf("failed to persist review: %w", err)
	}

	log.Debug("flashcard reviewed",
		slog.String("flashcard_id", id.String()),
		slog.Bool("correct", correct),
		slog.Float64("difficulty", reviewed.Difficulty),
		slog.Time("next_review", reviewed.NextReview))
	return reviewed, nil
}

// DeleteFlashcard removes the card. A card owns nothing; there is no
// further cascade.
// Returns store.ErrFlashcardNotFound if the card does not exist.
func (s *FlashcardService) DeleteFlashcard(ctx context.Context, id uuid.UUID) error {
	return s.flashcards.Delete(ctx, id)
}
