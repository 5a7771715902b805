package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// TrackService manages study tracks: resource membership, milestones,
// progress and template duplication. Tracks reference resources but do not
// own them, so nothing cascades on delete.
type TrackService struct {
	tracks store.TrackStore
	logger *slog.Logger
}

// NewTrackService creates a new TrackService.
func NewTrackService(tracks store.TrackStore, log *slog.Logger) *TrackService {
	if tracks == nil {
		panic("tracks cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TrackService{
		tracks: tracks,
		logger: log.With(slog.String("component", "track_service")),
	}
}

// CreateTrack builds a new track with empty resource and milestone lists and
// zeroed progress.
func (s *TrackService) CreateTrack(
	ctx context.Context,
	name, description, objective string,
	prerequisites []string,
	isTemplate bool,
) (*domain.StudyTrack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	track, err := domain.NewStudyTrack(name, description, objective, prerequisites, isTemplate)
	if err != nil {
		return nil, err
	}

	if err := s.tracks.Create(ctx, track); err != nil {
		log.Error("failed to create track",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, fmt.Errorf("failed to create track: %w", err)
	}

	log.Debug("track created",
		slog.String("track_id", track.ID.String()),
		slog.Bool("is_template", track.IsTemplate))
	return track, nil
}

// GetTrack retrieves a track by id.
// Returns store.ErrTrackNotFound if it does not exist.
func (s *TrackService) GetTrack(ctx context.Context, id uuid.UUID) (*domain.StudyTrack, error) {
	return s.tracks.GetByID(ctx, id)
}

// GetAllTracks returns all tracks, newest-created-first.
func (s *TrackService) GetAllTracks(ctx context.Context) ([]*domain.StudyTrack, error) {
	return s.tracks.GetAll(ctx)
}

// GetTemplates returns all tracks marked as templates.
func (s *TrackService) GetTemplates(ctx context.Context) ([]*domain.StudyTrack, error) {
	return s.tracks.GetByTemplate(ctx, true)
}

// GetUserTracks returns all non-template tracks.
func (s *TrackService) GetUserTracks(ctx context.Context) ([]*domain.StudyTrack, error) {
	return s.tracks.GetByTemplate(ctx, false)
}

// AddResourceToTrack adds a resource id to the track's member list. Adding an
// already-present id is a no-op that still bumps UpdatedAt.
func (s *TrackService) AddResourceToTrack(ctx context.Context, trackID, resourceID uuid.UUID) (*domain.StudyTrack, error) {
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(track.Resources, resourceID) {
		track.Resources = append(track.Resources, resourceID)
	}

	if err := s.tracks.Update(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to add resource to track: %w", err)
	}

	return track, nil
}

// RemoveResourceFromTrack removes a resource id from the track's member
// list. Removing an absent id is a no-op that still bumps UpdatedAt.
func (s *TrackService) RemoveResourceFromTrack(ctx context.Context, trackID, resourceID uuid.UUID) (*domain.StudyTrack, error) {
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	if i := slices.Index(track.Resources, resourceID); i >= 0 {
		track.Resources = slices.Delete(track.Resources, i, i+1)
	}

	if err := s.tracks.Update(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to remove resource from track: %w", err)
	}

	return track, nil
}

// AddMilestone appends a milestone to the track with order equal to the
// current milestone count.
func (s *TrackService) AddMilestone(
	ctx context.Context,
	trackID uuid.UUID,
	name, description string,
	requiredResources []uuid.UUID,
) (*domain.StudyTrack, error) {
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	track.AppendMilestone(name, description, requiredResources)

	if err := s.tracks.Update(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to add milestone: %w", err)
	}

	return track, nil
}

// CompleteMilestone marks a milestone completed and advances the track's
// current-milestone pointer to max(current, milestone index + 1). When every
// milestone is completed and the track has no completion timestamp yet, one
// is set. Track completion is re-derived on every call, so re-completing an
// already-completed milestone is an idempotent success.
// Returns store.ErrTrackNotFound or ErrMilestoneNotFound on a missing id.
func (s *TrackService) CompleteMilestone(ctx context.Context, trackID, milestoneID uuid.UUID) (*domain.StudyTrack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range track.Milestones {
		if track.Milestones[i].ID == milestoneID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrMilestoneNotFound
	}

	now := time.Now().UTC()
	milestone := &track.Milestones[idx]
	milestone.Completed = true
	if milestone.CompletedAt == nil {
		completedAt := now
		milestone.CompletedAt = &completedAt
	}

	if next := idx + 1; next > track.Progress.CurrentMilestone {
		track.Progress.CurrentMilestone = next
	}

	if track.IsCompleted() && track.Progress.CompletedAt == nil {
		completedAt := now
		track.Progress.CompletedAt = &completedAt
		log.Debug("track completed", slog.String("track_id", trackID.String()))
	}

	if err := s.tracks.Update(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to complete milestone: %w", err)
	}

	return track, nil
}

// TrackProgressUpdate carries the progress fields an UpdateProgress call
// wants to change; nil fields are left untouched.
type TrackProgressUpdate struct {
	CurrentMilestone   *int
	CompletedResources []uuid.UUID
	CompletedLessons   *int
	TotalTimeSpent     *int64
}

// UpdateProgress merges the supplied fields into the track's progress.
// StartedAt is set the first time TotalTimeSpent becomes positive and no
// start timestamp exists yet.
func (s *TrackService) UpdateProgress(ctx context.Context, trackID uuid.UUID, update TrackProgressUpdate) (*domain.StudyTrack, error) {
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	if update.CurrentMilestone != nil {
		track.Progress.CurrentMilestone = *update.CurrentMilestone
	}
	if update.CompletedResources != nil {
		track.Progress.CompletedResources = update.CompletedResources
	}
	if update.CompletedLessons != nil {
		track.Progress.CompletedLessons = *update.CompletedLessons
	}
	if update.TotalTimeSpent != nil {
		track.Progress.TotalTimeSpent = *update.TotalTimeSpent
	}

	if track.Progress.TotalTimeSpent > 0 && track.Progress.StartedAt == nil {
		startedAt := time.Now().UTC()
		track.Progress.StartedAt = &startedAt
	}

	if err := s.tracks.Update(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to update track progress: %w", err)
	}

	return track, nil
}

// DuplicateTemplate produces an independent non-template track from a
// template: fresh track and milestone ids, cleared completion state, progress
// reset to zero and the resource list carried over unchanged. The source
// template is not mutated.
// Returns store.ErrTrackNotFound or ErrNotATemplate.
func (s *TrackService) DuplicateTemplate(ctx context.Context, templateID uuid.UUID, newName string) (*domain.StudyTrack, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	source, err := s.tracks.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !source.IsTemplate {
		return nil, ErrNotATemplate
	}

	track, err := domain.NewStudyTrack(newName, source.Description, source.Objective, slices.Clone(source.Prerequisites), false)
	if err != nil {
		return nil, err
	}
	track.Difficulty = source.Difficulty
	track.Resources = slices.Clone(source.Resources)

	track.Milestones = make([]domain.Milestone, len(source.Milestones))
	for i, m := range source.Milestones {
		track.Milestones[i] = domain.Milestone{
			ID:                uuid.New(),
			Name:              m.Name,
			Description:       m.Description,
			RequiredResources: slices.Clone(m.RequiredResources),
			Order:             m.Order,
		}
	}

	if err := s.tracks.Create(ctx, track); err != nil {
		log.Error("failed to duplicate template",
			slog.String("error", err.Error()),
			slog.String("template_id", templateID.String()))
		return nil, fmt.Errorf("failed to duplicate template: %w", err)
	}

	log.Debug("template duplicated",
		slog.String("template_id", templateID.String()),
		slog.String("track_id", track.ID.String()))
	return track, nil
}

// DeleteTrack removes the track row only; member resources and their
// highlights and flashcards are untouched.
// Returns store.ErrTrackNotFound if the track does not exist.
func (s *TrackService) DeleteTrack(ctx context.Context, id uuid.UUID) error {
	return s.tracks.Delete(ctx, id)
}
