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

// HighlightStore implements the store.HighlightStore interface using sqlite
// as the storage backend.
type HighlightStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewHighlightStore creates a new sqlite implementation of the
// HighlightStore interface. If logger is nil, a default logger will be used.
func NewHighlightStore(db store.DBTX, log *slog.Logger) *HighlightStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &HighlightStore{
		db:     db,
		logger: log.With(slog.String("component", "highlight_store")),
	}
}

// Ensure HighlightStore implements store.HighlightStore
var _ store.HighlightStore = (*HighlightStore)(nil)

const highlightColumns = `id, resource_id, url, text, context, position, color, note, created_at, updated_at`

// Create implements store.HighlightStore.Create.
func (s *HighlightStore) Create(ctx context.Context, highlight *domain.Highlight) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := highlight.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	highlight.CreatedAt = now
	highlight.UpdatedAt = now

	position, err := marshalColumn(highlight.Position)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO highlights (` + highlightColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		highlight.ID, highlight.ResourceID, highlight.URL, highlight.Text,
		highlight.Context, position, highlight.Color, highlight.Note,
		highlight.CreatedAt, highlight.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create highlight",
			slog.String("error", err.Error()),
			slog.String("highlight_id", highlight.ID.String()))
		return MapError(err)
	}

	log.Debug("highlight created",
		slog.String("highlight_id", highlight.ID.String()),
		slog.String("resource_id", highlight.ResourceID.String()))
	return nil
}

// GetByID implements store.HighlightStore.GetByID.
func (s *HighlightStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Highlight, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+highlightColumns+` FROM highlights WHERE id = ?`, id)
	return s.scanHighlight(row)
}

// GetByResource implements store.HighlightStore.GetByResource (oldest-first).
func (s *HighlightStore) GetByResource(ctx context.Context, resourceID uuid.UUID) ([]*domain.Highlight, error) {
	return s.queryHighlights(ctx, `
		SELECT `+highlightColumns+` FROM highlights
		WHERE resource_id = ? ORDER BY created_at ASC`, resourceID)
}

// GetAll implements store.HighlightStore.GetAll (newest-first).
func (s *HighlightStore) GetAll(ctx context.Context) ([]*domain.Highlight, error) {
	return s.queryHighlights(ctx,
		`SELECT `+highlightColumns+` FROM highlights ORDER BY created_at DESC`)
}

// GetByColor implements store.HighlightStore.GetByColor.
func (s *HighlightStore) GetByColor(ctx context.Context, color string) ([]*domain.Highlight, error) {
	return s.queryHighlights(ctx, `
		SELECT `+highlightColumns+` FROM highlights
		WHERE color = ? ORDER BY created_at DESC`, color)
}

// Search implements store.HighlightStore.Search: case-insensitive substring
// match over text, note and context.
func (s *HighlightStore) Search(ctx context.Context, query string) ([]*domain.Highlight, error) {
	pattern := "%" + query + "%"
	return s.queryHighlights(ctx, `
		SELECT `+highlightColumns+` FROM highlights
		WHERE text LIKE ? COLLATE NOCASE
		   OR note LIKE ? COLLATE NOCASE
		   OR context LIKE ? COLLATE NOCASE
		ORDER BY created_at DESC`,
		pattern, pattern, pattern)
}

// Update implements store.HighlightStore.Update.
func (s *HighlightStore) Update(ctx context.Context, highlight *domain.Highlight) error {
	if err := highlight.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	highlight.UpdatedAt = time.Now().UTC()

	position, err := marshalColumn(highlight.Position)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE highlights
		SET resource_id = ?, url = ?, text = ?, context = ?, position = ?,
		    color = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		highlight.ResourceID, highlight.URL, highlight.Text, highlight.Context,
		position, highlight.Color, highlight.Note, highlight.UpdatedAt, highlight.ID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrHighlightNotFound)
}

// Delete implements store.HighlightStore.Delete. It removes the highlight
// row only; the highlight service cascades to flashcards inside a
// transaction.
func (s *HighlightStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM highlights WHERE id = ?`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrHighlightNotFound)
}

// DeleteByResource implements store.HighlightStore.DeleteByResource.
// Deleting zero rows is not an error.
func (s *HighlightStore) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM highlights WHERE resource_id = ?`, resourceID)
	return MapError(err)
}

// WithTx implements store.HighlightStore.WithTx.
func (s *HighlightStore) WithTx(tx *sql.Tx) store.HighlightStore {
	return &HighlightStore{db: tx, logger: s.logger}
}

// scanHighlight scans a single highlight row.
func (s *HighlightStore) scanHighlight(row scanner) (*domain.Highlight, error) {
	var (
		highlight domain.Highlight
		position  string
	)

	err := row.Scan(
		&highlight.ID, &highlight.ResourceID, &highlight.URL, &highlight.Text,
		&highlight.Context, &position, &highlight.Color, &highlight.Note,
		&highlight.CreatedAt, &highlight.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrHighlightNotFound
		}
		return nil, MapError(err)
	}

	if err := unmarshalColumn(position, &highlight.Position); err != nil {
		return nil, err
	}

	return &highlight, nil
}

// queryHighlights runs a multi-row highlight query.
func (s *HighlightStore) queryHighlights(ctx context.Context, query string, args ...any) ([]*domain.Highlight, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	highlights := []*domain.Highlight{}
	for rows.Next() {
		highlight, err := s.scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		highlights = append(highlights, highlight)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return highlights, nil
}
