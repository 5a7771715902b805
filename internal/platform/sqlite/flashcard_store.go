package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// FlashcardStore implements the store.FlashcardStore interface using sqlite
// as the storage backend. next_review is indexed to make the due query
// cheap.
type FlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewFlashcardStore creates a new sqlite implementation of the
// FlashcardStore interface. If logger is nil, a default logger will be used.
func NewFlashcardStore(db store.DBTX, log *slog.Logger) *FlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &FlashcardStore{
		db:     db,
		logger: log.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure FlashcardStore implements store.FlashcardStore
var _ store.FlashcardStore = (*FlashcardStore)(nil)

const flashcardColumns = `id, resource_id, highlight_id, front, back, difficulty, next_review, review_count, correct_count, created_at, updated_at`

// Create implements store.FlashcardStore.Create.
func (s *FlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	query := `
		INSERT INTO flashcards (` + flashcardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.ResourceID, nullableID(card.HighlightID), card.Front, card.Back,
		card.Difficulty, card.NextReview, card.ReviewCount, card.CorrectCount,
		card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("flashcard created",
		slog.String("flashcard_id", card.ID.String()),
		slog.String("resource_id", card.ResourceID.String()))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *FlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE id = ?`, id)
	return s.scanFlashcard(row)
}

// GetByResource implements store.FlashcardStore.GetByResource (oldest-first).
func (s *FlashcardStore) GetByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.Flashcard, error) {
	return s.queryFlashcards(ctx, `
		SELECT `+flashcardColumns+` FROM flashcards
		WHERE resource_id = ? ORDER BY created_at ASC`, resourceID)
}

// GetDue implements store.FlashcardStore.GetDue: cards whose next review is
// at or before now, soonest-due-first.
func (s *FlashcardStore) GetDue(ctx context.Context, now time.Time) ([]*domain.Flashcard, error) {
	return s.queryFlashcards(ctx, `
		SELECT `+flashcardColumns+` FROM flashcards
		WHERE next_review <= ? ORDER BY next_review ASC`, now.UTC())
}

// GetAll implements store.FlashcardStore.GetAll (newest-created-first).
func (s *FlashcardStore) GetAll(ctx context.Context) ([]*domain.Flashcard, error) {
	return s.queryFlashcards(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards ORDER BY created_at DESC`)
}

// Update implements store.FlashcardStore.Update. All mutable fields are
// rewritten in one statement so a review persists its counters, difficulty
// and schedule atomically.
func (s *FlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	card.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET resource_id = ?, highlight_id = ?, front = ?, back = ?, difficulty = ?,
		    next_review = ?, review_count = ?, correct_count = ?, updated_at = ?
		WHERE id = ?`,
		card.ResourceID, nullableID(card.HighlightID), card.Front, card.Back,
		card.Difficulty, card.NextReview, card.ReviewCount, card.CorrectCount,
		card.UpdatedAt, card.ID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

// Delete implements store.FlashcardStore.Delete.
func (s *FlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

// DeleteByResource implements store.FlashcardStore.DeleteByResource.
// Deleting zero rows is not an error.
func (s *FlashcardStore) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM flashcards WHERE resource_id = ?`, resourceID)
	return MapError(err)
}

// DeleteByHighlight implements store.FlashcardStore.DeleteByHighlight.
// Deleting zero rows is not an error.
func (s *FlashcardStore) DeleteByHighlight(ctx context.Context, highlightID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM flashcards WHERE highlight_id = ?`, highlightID)
	return MapError(err)
}

// WithTx implements store.FlashcardStore.WithTx.
func (s *FlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &FlashcardStore{db: tx, logger: s.logger}
}

// nullableID converts an optional UUID reference into its SQL form.
func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// scanFlashcard scans a single flashcard row.
func (s *FlashcardStore) scanFlashcard(row scanner) (*domain.Flashcard, error) {
	var (
		card        domain.Flashcard
		highlightID uuid.NullUUID
	)

	err := row.Scan(
		&card.ID, &card.ResourceID, &highlightID, &card.Front, &card.Back,
		&card.Difficulty, &card.NextReview, &card.ReviewCount, &card.CorrectCount,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		return nil, MapError(err)
	}

	if highlightID.Valid {
		id := highlightID.UUID
		card.HighlightID = &id
	}

	return &card, nil
}

// queryFlashcards runs a multi-row flashcard query.
func (s *FlashcardStore) queryFlashcards(ctx context.Context, query string, args ...any) ([]*domain.Flashcard, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.Flashcard{}
	for rows.Next() {
		card, err := s.scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}
