package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// HighlightService manages user annotations. Creation never deduplicates;
// deletion cascades to flashcards generated from the highlight.
type HighlightService struct {
	db         store.TxBeginner
	highlights store.HighlightStore
	flashcards store.FlashcardStore
	logger     *slog.Logger
}

// NewHighlightService creates a new HighlightService.
func NewHighlightService(
	db store.TxBeginner,
	highlights store.HighlightStore,
	flashcards store.FlashcardStore,
	log *slog.Logger,
) *HighlightService {
	if db == nil {
		panic("db cannot be nil")
	}
	if highlights == nil {
		panic("highlights cannot be nil")
	}
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &HighlightService{
		db:         db,
		highlights: highlights,
		flashcards: flashcards,
		logger:     log.With(slog.String("component", "highlight_service")),
	}
}

// CreateHighlight records a new annotation anchored to a resource. An empty
// color falls back to the default yellow. Every call inserts a new record.
func (s *HighlightService) CreateHighlight(
	ctx context.Context,
	resourceID uuid.UUID,
	url, text, contextText string,
	position domain.HighlightPosition,
	color, note string,
) (*domain.Highlight, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	highlight, err := domain.NewHighlight(resourceID, url, text, contextText, position, color, note)
	if err != nil {
		return nil, err
	}

	if err := s.highlights.Create(ctx, highlight); err != nil {
		log.Error("failed to create highlight",
			slog.String("error", err.Error()),
			slog.String("resource_id", resourceID.String()))
		return nil, fmt.Errorf("failed to create highlight: %w", err)
	}

	log.Debug("highlight created",
		slog.String("highlight_id", highlight.ID.String()),
		slog.String("resource_id", resourceID.String()))
	return highlight, nil
}

// GetHighlight retrieves a highlight by id.
// Returns store.ErrHighlightNotFound if it does not exist.
func (s *HighlightService) GetHighlight(ctx context.Context, id uuid.UUID) (*domain.Highlight, error) {
	return s.highlights.GetByID(ctx, id)
}

// GetHighlightsByResource returns a resource's highlights, oldest-first.
func (s *HighlightService) GetHighlightsByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.Highlight, error) {
	return s.highlights.GetByResource(ctx, resourceID)
}

// GetAllHighlights returns all highlights, newest-first.
func (s *HighlightService) GetAllHighlights(ctx context.Context) ([]*domain.Highlight, error) {
	return s.highlights.GetAll(ctx)
}

// GetHighlightsByColor returns highlights with the exact given color tag.
func (s *HighlightService) GetHighlightsByColor(ctx context.Context, color string) ([]*domain.Highlight, error) {
	return s.highlights.GetByColor(ctx, color)
}

// SearchHighlights returns highlights whose text, note or context contains
// the query, case-insensitively.
func (s *HighlightService) SearchHighlights(ctx context.Context, query string) ([]*domain.Highlight, error) {
	return s.highlights.Search(ctx, query)
}

// HighlightUpdate carries the fields an UpdateHighlight call wants to change;
// nil fields are left untouched.
type HighlightUpdate struct {
	Text  *string
	Note  *string
	Color *string
}

// UpdateHighlight merges the supplied fields into the stored highlight.
func (s *HighlightService) UpdateHighlight(ctx context.Context, id uuid.UUID, update HighlightUpdate) (*domain.Highlight, error) {
	highlight, err := s.highlights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Text != nil {
		highlight.Text = *update.Text
	}
	if update.Note != nil {
		highlight.Note = *update.Note
	}
	if update.Color != nil {
		highlight.Color = *update.Color
	}

	if err := s.highlights.Update(ctx, highlight); err != nil {
		return nil, fmt.Errorf("failed to update highlight: %w", err)
	}

	return highlight, nil
}

// DeleteHighlight removes the highlight and every flashcard whose
// owning-highlight id matches, as one transaction.
func (s *HighlightService) DeleteHighlight(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.flashcards.WithTx(tx).DeleteByHighlight(ctx, id); err != nil {
			return fmt.Errorf("failed to delete dependent flashcards: %w", err)
		}
		if err := s.highlights.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete highlight",
			slog.String("error", err.Error()),
			slog.String("highlight_id", id.String()))
		return err
	}

	log.Debug("highlight deleted with cascade", slog.String("highlight_id", id.String()))
	return nil
}
