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

// ResourceStore implements the store.ResourceStore interface using sqlite
// as the storage backend.
type ResourceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewResourceStore creates a new sqlite implementation of the ResourceStore
// interface. If logger is nil, a default logger will be used.
func NewResourceStore(db store.DBTX, log *slog.Logger) *ResourceStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ResourceStore{
		db:     db,
		logger: log.With(slog.String("component", "resource_store")),
	}
}

// Ensure ResourceStore implements store.ResourceStore
var _ store.ResourceStore = (*ResourceStore)(nil)

const resourceColumns = `id, type, url, title, content, metadata, content_hash, study_progress, created_at, updated_at`

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// Create implements store.ResourceStore.Create.
// It stamps CreatedAt and UpdatedAt, overriding caller-supplied values, and
// maps uniqueness violations on url and content_hash to their specific
// duplicate errors.
func (s *ResourceStore) Create(ctx context.Context, resource *domain.Resource) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := resource.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	metadata, err := marshalColumn(resource.Metadata)
	if err != nil {
		return err
	}
	progress, err := marshalColumn(resource.StudyProgress)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO resources (` + resourceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		resource.ID, resource.Type, resource.URL, resource.Title, resource.Content,
		metadata, resource.ContentHash, progress, resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err, "resources.url"):
			return fmt.Errorf("%w: %v", store.ErrURLExists, err)
		case IsUniqueViolation(err, "resources.content_hash"):
			return fmt.Errorf("%w: %v", store.ErrFingerprintExists, err)
		}
		log.Error("failed to create resource",
			slog.String("error", err.Error()),
			slog.String("resource_id", resource.ID.String()))
		return MapError(err)
	}

	log.Debug("resource created",
		slog.String("resource_id", resource.ID.String()),
		slog.String("url", resource.URL))
	return nil
}

// GetByID implements store.ResourceStore.GetByID.
func (s *ResourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id)
	return s.scanResource(row)
}

// GetByURL implements store.ResourceStore.GetByURL.
func (s *ResourceStore) GetByURL(ctx context.Context, url string) (*domain.Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE url = ?`, url)
	return s.scanResource(row)
}

// GetByFingerprint implements store.ResourceStore.GetByFingerprint.
func (s *ResourceStore) GetByFingerprint(ctx context.Context, hash string) (*domain.Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE content_hash = ?`, hash)
	return s.scanResource(row)
}

// GetAll implements store.ResourceStore.GetAll (newest-created-first).
func (s *ResourceStore) GetAll(ctx context.Context) ([]*domain.Resource, error) {
	return s.queryResources(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY created_at DESC`)
}

// GetByType implements store.ResourceStore.GetByType.
func (s *ResourceStore) GetByType(ctx context.Context, typ domain.ResourceType) ([]*domain.Resource, error) {
	return s.queryResources(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE type = ? ORDER BY created_at DESC`, typ)
}

// Search implements store.ResourceStore.Search: case-insensitive substring
// match over title, content and url.
func (s *ResourceStore) Search(ctx context.Context, query string) ([]*domain.Resource, error) {
	pattern := "%" + query + "%"
	return s.queryResources(ctx, `
		SELECT `+resourceColumns+` FROM resources
		WHERE title LIKE ? COLLATE NOCASE
		   OR content LIKE ? COLLATE NOCASE
		   OR url LIKE ? COLLATE NOCASE
		ORDER BY created_at DESC`,
		pattern, pattern, pattern)
}

// Update implements store.ResourceStore.Update.
// It rewrites every mutable field as one record update and refreshes
// UpdatedAt, overriding any caller-supplied value.
func (s *ResourceStore) Update(ctx context.Context, resource *domain.Resource) error {
	if err := resource.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	resource.UpdatedAt = time.Now().UTC()

	metadata, err := marshalColumn(resource.Metadata)
	if err != nil {
		return err
	}
	progress, err := marshalColumn(resource.StudyProgress)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE resources
		SET type = ?, url = ?, title = ?, content = ?, metadata = ?,
		    content_hash = ?, study_progress = ?, updated_at = ?
		WHERE id = ?`,
		resource.Type, resource.URL, resource.Title, resource.Content, metadata,
		resource.ContentHash, progress, resource.UpdatedAt, resource.ID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrResourceNotFound)
}

// Delete implements store.ResourceStore.Delete. It removes the resource row
// only; the resource service cascades to highlights and flashcards inside a
// transaction.
func (s *ResourceStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrResourceNotFound)
}

// WithTx implements store.ResourceStore.WithTx.
func (s *ResourceStore) WithTx(tx *sql.Tx) store.ResourceStore {
	return &ResourceStore{db: tx, logger: s.logger}
}

// scanResource scans a single resource row.
func (s *ResourceStore) scanResource(row scanner) (*domain.Resource, error) {
	var (
		resource domain.Resource
		metadata string
		progress string
	)

	err := row.Scan(
		&resource.ID, &resource.Type, &resource.URL, &resource.Title, &resource.Content,
		&metadata, &resource.ContentHash, &progress, &resource.CreatedAt, &resource.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrResourceNotFound
		}
		return nil, MapError(err)
	}

	if err := unmarshalColumn(metadata, &resource.Metadata); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(progress, &resource.StudyProgress); err != nil {
		return nil, err
	}

	return &resource, nil
}

// queryResources runs a multi-row resource query.
func (s *ResourceStore) queryResources(ctx context.Context, query string, args ...any) ([]*domain.Resource, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	resources := []*domain.Resource{}
	for rows.Next() {
		resource, err := s.scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return resources, nil
}
