package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/notumhq/notum/internal/domain"
)

// ResourceStore defines the interface for resource persistence.
type ResourceStore interface {
	// Create saves a new resource. The store stamps CreatedAt/UpdatedAt,
	// overriding caller-supplied values. Returns ErrURLExists or
	// ErrFingerprintExists when the corresponding uniqueness index rejects
	// the insert.
	Create(ctx context.Context, resource *domain.Resource) error

	// GetByID retrieves a resource by its unique ID.
	// Returns ErrResourceNotFound if the resource does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error)

	// GetByURL retrieves a resource by its exact URL.
	// Returns ErrResourceNotFound if no resource has that URL.
	GetByURL(ctx context.Context, url string) (*domain.Resource, error)

	// GetByFingerprint retrieves a resource by its content fingerprint.
	// Returns ErrResourceNotFound if no resource has that fingerprint.
	GetByFingerprint(ctx context.Context, hash string) (*domain.Resource, error)

	// GetAll returns all resources ordered newest-created-first.
	GetAll(ctx context.Context) ([]*domain.Resource, error)

	// GetByType returns resources with the exact given type.
	GetByType(ctx context.Context, typ domain.ResourceType) ([]*domain.Resource, error)

	// Search returns resources whose title, content or URL contains the
	// query, case-insensitively.
	Search(ctx context.Context, query string) ([]*domain.Resource, error)

	// Update rewrites the stored resource and refreshes UpdatedAt.
	// Returns ErrResourceNotFound if the resource does not exist.
	Update(ctx context.Context, resource *domain.Resource) error

	// Delete removes a resource row only; cascading to owned highlights and
	// flashcards is the resource service's job, inside one transaction.
	// Returns ErrResourceNotFound if the resource does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ResourceStore bound to the given transaction.
	WithTx(tx *sql.Tx) ResourceStore
}
