package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/notumhq/notum/internal/domain"
)

// TrackStore defines the interface for study track persistence. Milestones
// and progress ride inside the track document; the store persists the whole
// record.
type TrackStore interface {
	// Create saves a new track. The store stamps CreatedAt/UpdatedAt.
	Create(ctx context.Context, track *domain.StudyTrack) error

	// GetByID retrieves a track by its unique ID.
	// Returns ErrTrackNotFound if the track does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyTrack, error)

	// GetAll returns all tracks ordered newest-created-first.
	GetAll(ctx context.Context) ([]*domain.StudyTrack, error)

	// GetByTemplate returns tracks filtered by their template flag,
	// newest-created-first.
	GetByTemplate(ctx context.Context, isTemplate bool) ([]*domain.StudyTrack, error)

	// Update rewrites the stored track and refreshes UpdatedAt.
	// Returns ErrTrackNotFound if the track does not exist.
	Update(ctx context.Context, track *domain.StudyTrack) error

	// Delete removes the track row only. Tracks reference resources, they
	// do not own them; nothing cascades.
	// Returns ErrTrackNotFound if the track does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TrackStore bound to the given transaction.
	WithTx(tx *sql.Tx) TrackStore
}
