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

// TrackStore implements the store.TrackStore interface using sqlite as the
// storage backend. Milestones, progress and the member lists are JSON
// columns; the template flag is indexed.
type TrackStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTrackStore creates a new sqlite implementation of the TrackStore
// interface. If logger is nil, a default logger will be used.
func NewTrackStore(db store.DBTX, log *slog.Logger) *TrackStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TrackStore{
		db:     db,
		logger: log.With(slog.String("component", "track_store")),
	}
}

// Ensure TrackStore implements store.TrackStore
var _ store.TrackStore = (*TrackStore)(nil)

const trackColumns = `id, name, description, objective, prerequisites, resources, difficulty, milestones, is_template, progress, created_at, updated_at`

// Create implements store.TrackStore.Create.
func (s *TrackStore) Create(ctx context.Context, track *domain.StudyTrack) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	track.CreatedAt = now
	track.UpdatedAt = now

	cols, err := s.marshalTrackColumns(track)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO study_tracks (` + trackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		track.ID, track.Name, track.Description, track.Objective,
		cols.prerequisites, cols.resources, track.Difficulty, cols.milestones,
		track.IsTemplate, cols.progress, track.CreatedAt, track.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create track",
			slog.String("error", err.Error()),
			slog.String("track_id", track.ID.String()))
		return MapError(err)
	}

	log.Debug("track created",
		slog.String("track_id", track.ID.String()),
		slog.Bool("is_template", track.IsTemplate))
	return nil
}

// GetByID implements store.TrackStore.GetByID.
func (s *TrackStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudyTrack, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+trackColumns+` FROM study_tracks WHERE id = ?`, id)
	return s.scanTrack(row)
}

// GetAll implements store.TrackStore.GetAll (newest-first).
func (s *TrackStore) GetAll(ctx context.Context) ([]*domain.StudyTrack, error) {
	return s.queryTracks(ctx,
		`SELECT `+trackColumns+` FROM study_tracks ORDER BY created_at DESC`)
}

// GetByTemplate implements store.TrackStore.GetByTemplate.
func (s *TrackStore) GetByTemplate(ctx context.Context, isTemplate bool) ([]*domain.StudyTrack, error) {
	return s.queryTracks(ctx, `
		SELECT `+trackColumns+` FROM study_tracks
		WHERE is_template = ? ORDER BY created_at DESC`, isTemplate)
}

// Update implements store.TrackStore.Update.
func (s *TrackStore) Update(ctx context.Context, track *domain.StudyTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	track.UpdatedAt = time.Now().UTC()

	cols, err := s.marshalTrackColumns(track)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE study_tracks
		SET name = ?, description = ?, objective = ?, prerequisites = ?,
		    resources = ?, difficulty = ?, milestones = ?, is_template = ?,
		    progress = ?, updated_at = ?
		WHERE id = ?`,
		track.Name, track.Description, track.Objective, cols.prerequisites,
		cols.resources, track.Difficulty, cols.milestones, track.IsTemplate,
		cols.progress, track.UpdatedAt, track.ID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTrackNotFound)
}

// Delete implements store.TrackStore.Delete.
func (s *TrackStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM study_tracks WHERE id = ?`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTrackNotFound)
}

// WithTx implements store.TrackStore.WithTx.
func (s *TrackStore) WithTx(tx *sql.Tx) store.TrackStore {
	return &TrackStore{db: tx, logger: s.logger}
}

// trackJSONColumns groups the encoded JSON columns of a track row.
type trackJSONColumns struct {
	prerequisites string
	resources     string
	milestones    string
	progress      string
}

func (s *TrackStore) marshalTrackColumns(track *domain.StudyTrack) (*trackJSONColumns, error) {
	prerequisites, err := marshalColumn(track.Prerequisites)
	if err != nil {
		return nil, err
	}
	resources, err := marshalColumn(track.Resources)
	if err != nil {
		return nil, err
	}
	milestones, err := marshalColumn(track.Milestones)
	if err != nil {
		return nil, err
	}
	progress, err := marshalColumn(track.Progress)
	if err != nil {
		return nil, err
	}

	return &trackJSONColumns{
		prerequisites: prerequisites,
		resources:     resources,
		milestones:    milestones,
		progress:      progress,
	}, nil
}

// scanTrack scans a single track row.
func (s *TrackStore) scanTrack(row scanner) (*domain.StudyTrack, error) {
	var (
		track         domain.StudyTrack
		prerequisites string
		resources     string
		milestones    string
		progress      string
	)

	err := row.Scan(
		&track.ID, &track.Name, &track.Description, &track.Objective,
		&prerequisites, &resources, &track.Difficulty, &milestones,
		&track.IsTemplate, &progress, &track.CreatedAt, &track.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTrackNotFound
		}
		return nil, MapError(err)
	}

	if err := unmarshalColumn(prerequisites, &track.Prerequisites); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(resources, &track.Resources); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(milestones, &track.Milestones); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(progress, &track.Progress); err != nil {
		return nil, err
	}

	return &track, nil
}

// queryTracks runs a multi-row track query.
func (s *TrackStore) queryTracks(ctx context.Context, query string, args ...any) ([]*domain.StudyTrack, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tracks := []*domain.StudyTrack{}
	for rows.Next() {
		track, err := s.scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tracks, nil
}
