package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/notumhq/notum/internal/domain"
)

// FlashcardStore defines the interface for flashcard persistence.
type FlashcardStore interface {
	// Create saves a new flashcard. The store stamps CreatedAt/UpdatedAt.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// GetByResource returns the flashcards owned by a resource,
	// oldest-created-first.
	GetByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.Flashcard, error)

	// GetDue returns all cards whose NextReview is at or before now,
	// ordered soonest-due-first.
	GetDue(ctx context.Context, now time.Time) ([]*domain.Flashcard, error)

	// GetAll returns all flashcards ordered newest-created-first.
	GetAll(ctx context.Context) ([]*domain.Flashcard, error)

	// Update rewrites the stored flashcard as one atomic record update and
	// refreshes UpdatedAt. Review persistence (counters, difficulty, next
	// review) goes through here.
	// Returns ErrFlashcardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a flashcard row. A flashcard owns nothing; there is
	// no further cascade.
	// Returns ErrFlashcardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByResource removes every flashcard owned by the resource.
	// Deleting zero rows is not an error.
	DeleteByResource(ctx context.Context, resourceID uuid.UUID) error

	// DeleteByHighlight removes every flashcard referencing the highlight.
	// Deleting zero rows is not an error.
	DeleteByHighlight(ctx context.Context, highlightID uuid.UUID) error

	// WithTx returns a FlashcardStore bound to the given transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
