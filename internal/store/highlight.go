package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/notumhq/notum/internal/domain"
)

// HighlightStore defines the interface for highlight persistence.
type HighlightStore interface {
	// Create saves a new highlight. The store stamps CreatedAt/UpdatedAt.
	Create(ctx context.Context, highlight *domain.Highlight) error

	// GetByID retrieves a highlight by its unique ID.
	// Returns ErrHighlightNotFound if the highlight does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Highlight, error)

	// GetByResource returns the highlights anchored to a resource,
	// oldest-created-first.
	GetByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.Highlight, error)

	// GetAll returns all highlights ordered newest-created-first.
	GetAll(ctx context.Context) ([]*domain.Highlight, error)

	// GetByColor returns highlights with the exact given color tag.
	GetByColor(ctx context.Context, color string) ([]*domain.Highlight, error)

	// Search returns highlights whose text, note or context contains the
	// query, case-insensitively.
	Search(ctx context.Context, query string) ([]*domain.Highlight, error)

	// Update rewrites the stored highlight and refreshes UpdatedAt.
	// Returns ErrHighlightNotFound if the highlight does not exist.
	Update(ctx context.Context, highlight *domain.Highlight) error

	// Delete removes a highlight row only; cascading to flashcards is the
	// highlight service's job, inside one transaction.
	// Returns ErrHighlightNotFound if the highlight does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByResource removes every highlight anchored to the resource.
	// Deleting zero rows is not an error.
	DeleteByResource(ctx context.Context, resourceID uuid.UUID) error

	// WithTx returns a HighlightStore bound to the given transaction.
	WithTx(tx *sql.Tx) HighlightStore
}
