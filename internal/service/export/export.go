package export

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// Service builds export bundles and performs best-effort imports.
type Service struct {
	resources  store.ResourceStore
	highlights store.HighlightStore
	flashcards store.FlashcardStore
	tracks     store.TrackStore
	users      store.UserStore
	renderer   Renderer
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewService creates a new export Service.
func NewService(
	resources store.ResourceStore,
	highlights store.HighlightStore,
	flashcards store.FlashcardStore,
	tracks store.TrackStore,
	users store.UserStore,
	renderer Renderer,
	log *slog.Logger,
) *Service {
	if resources == nil {
		panic("resources cannot be nil")
	}
	if highlights == nil {
		panic("highlights cannot be nil")
	}
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if tracks == nil {
		panic("tracks cannot be nil")
	}
	if users == nil {
		panic("users cannot be nil")
	}
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		resources:  resources,
		highlights: highlights,
		flashcards: flashcards,
		tracks:     tracks,
		users:      users,
		renderer:   renderer,
		validate:   validator.New(),
		logger:     log.With(slog.String("component", "export_service")),
	}
}

// BuildBundle assembles a bundle from the store. With no track ids, the
// whole store is exported. With track ids, only those tracks, the resources
// they reference, and the highlights and flashcards of those resources are
// included.
func (s *Service) BuildBundle(ctx context.Context, trackIDs ...uuid.UUID) (*Bundle, error) {
	bundle := &Bundle{
		Version:      BundleVersion,
		ExportedAt:   time.Now().UTC(),
		Assets:       []*domain.Asset{},
		Translations: []*domain.Translation{},
	}

	if user, err := s.users.Get(ctx); err == nil {
		bundle.User = user
	} else if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load user for export: %w", err)
	}

	if len(trackIDs) == 0 {
		return s.fillFullBundle(ctx, bundle)
	}
	return s.fillTrackBundle(ctx, bundle, trackIDs)
}

func (s *Service) fillFullBundle(ctx context.Context, bundle *Bundle) (*Bundle, error) {
	var err error
	if bundle.Tracks, err = s.tracks.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load tracks for export: %w", err)
	}
	if bundle.Resources, err = s.resources.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load resources for export: %w", err)
	}
	if bundle.Highlights, err = s.highlights.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load highlights for export: %w", err)
	}
	if bundle.Flashcards, err = s.flashcards.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load flashcards for export: %w", err)
	}
	return bundle, nil
}

func (s *Service) fillTrackBundle(ctx context.Context, bundle *Bundle, trackIDs []uuid.UUID) (*Bundle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bundle.Tracks = []*domain.StudyTrack{}
	bundle.Resources = []*domain.Resource{}
	bundle.Highlights = []*domain.Highlight{}
	bundle.Flashcards = []*domain.Flashcard{}

	seen := map[uuid.UUID]bool{}
	for _, trackID := range trackIDs {
		track, err := s.tracks.GetByID(ctx, trackID)
		if err != nil {
			if store.IsNotFoundError(err) {
				log.Warn("export skipping missing track", slog.String("track_id", trackID.String()))
				continue
			}
			return nil, fmt.Errorf("failed to load track for export: %w", err)
		}
		bundle.Tracks = append(bundle.Tracks, track)

		for _, resourceID := range track.Resources {
			if seen[resourceID] {
				continue
			}
			seen[resourceID] = true

			resource, err := s.resources.GetByID(ctx, resourceID)
			if err != nil {
				if store.IsNotFoundError(err) {
					log.Warn("export skipping missing resource",
						slog.String("resource_id", resourceID.String()))
					continue
				}
				return nil, fmt.Errorf("failed to load resource for export: %w", err)
			}
			bundle.Resources = append(bundle.Resources, resource)

			highlights, err := s.highlights.GetByResource(ctx, resourceID)
			if err != nil {
				return nil, fmt.Errorf("failed to load highlights for export: %w", err)
			}
			bundle.Highlights = append(bundle.Highlights, highlights...)

			flashcards, err := s.flashcards.GetByResource(ctx, resourceID)
			if err != nil {
				return nil, fmt.Errorf("failed to load flashcards for export: %w", err)
			}
			bundle.Flashcards = append(bundle.Flashcards, flashcards...)
		}
	}

	return bundle, nil
}

// ExportJSON serializes a bundle to an indented JSON document.
func (s *Service) ExportJSON(ctx context.Context, trackIDs ...uuid.UUID) ([]byte, error) {
	bundle, err := s.BuildBundle(ctx, trackIDs...)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(bundle, "", "  ")
}

// ExportArchive writes a zip archive to w: bundle.json, one rendered
// markdown document per track, aggregate Resources.md and Highlights.md, and
// a metadata.json with counts.
func (s *Service) ExportArchive(ctx context.Context, w io.Writer, trackIDs ...uuid.UUID) error {
	bundle, err := s.BuildBundle(ctx, trackIDs...)
	if err != nil {
		return err
	}

	resourcesByID := make(map[string]*domain.Resource, len(bundle.Resources))
	for _, r := range bundle.Resources {
		resourcesByID[r.ID.String()] = r
	}

	zw := zip.NewWriter(w)

	doc, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize bundle: %w", err)
	}
	if err := writeArchiveFile(zw, "bundle.json", doc); err != nil {
		return err
	}

	for _, track := range bundle.Tracks {
		rendered, err := s.renderer.Render(ctx, track.Name, trackSections(track, resourcesByID))
		if err != nil {
			return fmt.Errorf("failed to render track document: %w", err)
		}
		if err := writeArchiveFile(zw, archiveFileName(track.Name), []byte(rendered)); err != nil {
			return err
		}
	}

	rendered, err := s.renderer.Render(ctx, "Resources", resourceSections(bundle.Resources))
	if err != nil {
		return fmt.Errorf("failed to render resources document: %w", err)
	}
	if err := writeArchiveFile(zw, "Resources.md", []byte(rendered)); err != nil {
		return err
	}

	rendered, err = s.renderer.Render(ctx, "Highlights", highlightSections(bundle.Highlights, resourcesByID))
	if err != nil {
		return fmt.Errorf("failed to render highlights document: %w", err)
	}
	if err := writeArchiveFile(zw, "Highlights.md", []byte(rendered)); err != nil {
		return err
	}

	metadata, err := json.MarshalIndent(map[string]any{
		"version":     bundle.Version,
		"exported_at": bundle.ExportedAt,
		"tracks":      len(bundle.Tracks),
		"resources":   len(bundle.Resources),
		"highlights":  len(bundle.Highlights),
		"flashcards":  len(bundle.Flashcards),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}
	if err := writeArchiveFile(zw, "metadata.json", metadata); err != nil {
		return err
	}

	return zw.Close()
}

// ImportJSON parses and validates a bundle document, then imports it
// best-effort: resources first (deduped by url, ids remapped), highlights
// next (dropped when their resource did not land), flashcards when both
// references landed, non-template tracks last with remapped and filtered
// resource lists. Per-record failures are logged and skipped.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (*ImportReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := s.validate.Struct(&bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	report := &ImportReport{}

	// Old resource id -> id in this store.
	remap := map[uuid.UUID]uuid.UUID{}
	highlightRemap := map[uuid.UUID]uuid.UUID{}

	for _, r := range bundle.Resources {
		newID, reused, err := s.importResource(ctx, r)
		if err != nil {
			log.Warn("import skipping resource",
				slog.String("url", r.URL),
				slog.String("error", err.Error()))
			report.ResourcesSkipped++
			continue
		}
		remap[r.ID] = newID
		if reused {
			report.ResourcesReused++
		} else {
			report.ResourcesImported++
		}
	}

	for _, h := range bundle.Highlights {
		resourceID, ok := remap[h.ResourceID]
		if !ok {
			report.HighlightsSkipped++
			continue
		}
		highlight, err := domain.NewHighlight(resourceID, h.URL, h.Text, h.Context, h.Position, h.Color, h.Note)
		if err != nil {
			log.Warn("import skipping highlight", slog.String("error", err.Error()))
			report.HighlightsSkipped++
			continue
		}
		if err := s.highlights.Create(ctx, highlight); err != nil {
			log.Warn("import skipping highlight", slog.String("error", err.Error()))
			report.HighlightsSkipped++
			continue
		}
		highlightRemap[h.ID] = highlight.ID
		report.HighlightsImported++
	}

	for _, c := range bundle.Flashcards {
		resourceID, ok := remap[c.ResourceID]
		if !ok {
			report.FlashcardsSkipped++
			continue
		}
		var highlightID *uuid.UUID
		if c.HighlightID != nil {
			mapped, ok := highlightRemap[*c.HighlightID]
			if !ok {
				report.FlashcardsSkipped++
				continue
			}
			highlightID = &mapped
		}
		card, err := domain.NewFlashcard(resourceID, c.Front, c.Back, highlightID)
		if err != nil {
			log.Warn("import skipping flashcard", slog.String("error", err.Error()))
			report.FlashcardsSkipped++
			continue
		}
		card.Difficulty = c.Difficulty
		card.NextReview = c.NextReview
		card.ReviewCount = c.ReviewCount
		card.CorrectCount = c.CorrectCount
		if err := s.flashcards.Create(ctx, card); err != nil {
			log.Warn("import skipping flashcard", slog.String("error", err.Error()))
			report.FlashcardsSkipped++
			continue
		}
		report.FlashcardsImported++
	}

	for _, t := range bundle.Tracks {
		if t.IsTemplate {
			continue
		}
		if err := s.importTrack(ctx, t, remap); err != nil {
			log.Warn("import skipping track",
				slog.String("name", t.Name),
				slog.String("error", err.Error()))
			report.TracksSkipped++
			continue
		}
		report.TracksImported++
	}

	log.Info("import finished",
		slog.Int("resources_imported", report.ResourcesImported),
		slog.Int("resources_reused", report.ResourcesReused),
		slog.Int("highlights_imported", report.HighlightsImported),
		slog.Int("flashcards_imported", report.FlashcardsImported),
		slog.Int("tracks_imported", report.TracksImported))
	return report, nil
}

// importResource reuses an existing resource with the same url, otherwise
// creates a fresh record carrying the bundle's content and fingerprint.
func (s *Service) importResource(ctx context.Context, r *domain.Resource) (uuid.UUID, bool, error) {
	existing, err := s.resources.GetByURL(ctx, r.URL)
	if err == nil {
		return existing.ID, true, nil
	}
	if !store.IsNotFoundError(err) {
		return uuid.Nil, false, err
	}

	hash := r.ContentHash
	if hash == "" {
		hash = domain.ContentFingerprint(r.Content + r.Title + r.URL)
	}

	resource, err := domain.NewResource(r.Type, r.URL, r.Title, r.Content, hash, r.Metadata)
	if err != nil {
		return uuid.Nil, false, err
	}
	resource.StudyProgress = r.StudyProgress

	if err := s.resources.Create(ctx, resource); err != nil {
		// Another record already carries this fingerprint; reuse it.
		if store.IsDuplicateError(err) {
			if winner, readErr := s.resources.GetByFingerprint(ctx, hash); readErr == nil {
				return winner.ID, true, nil
			}
		}
		return uuid.Nil, false, err
	}

	return resource.ID, false, nil
}

// importTrack recreates a non-template track with fresh ids and its resource
// list remapped and filtered to resources that landed in this store.
func (s *Service) importTrack(ctx context.Context, t *domain.StudyTrack, remap map[uuid.UUID]uuid.UUID) error {
	track, err := domain.NewStudyTrack(t.Name, t.Description, t.Objective, slices.Clone(t.Prerequisites), false)
	if err != nil {
		return err
	}
	track.Difficulty = t.Difficulty
	track.Progress = t.Progress
	track.Progress.CompletedResources = []uuid.UUID{}
	for _, old := range t.Progress.CompletedResources {
		if mapped, ok := remap[old]; ok {
			track.Progress.CompletedResources = append(track.Progress.CompletedResources, mapped)
		}
	}

	for _, old := range t.Resources {
		if mapped, ok := remap[old]; ok {
			track.Resources = append(track.Resources, mapped)
		}
	}

	track.Milestones = make([]domain.Milestone, len(t.Milestones))
	for i, m := range t.Milestones {
		required := []uuid.UUID{}
		for _, old := range m.RequiredResources {
			if mapped, ok := remap[old]; ok {
				required = append(required, mapped)
			}
		}
		track.Milestones[i] = domain.Milestone{
			ID:                uuid.New(),
			Name:              m.Name,
			Description:       m.Description,
			RequiredResources: required,
			Order:             m.Order,
			Completed:         m.Completed,
			CompletedAt:       m.CompletedAt,
		}
	}

	return s.tracks.Create(ctx, track)
}

// ImportFile imports a bundle from disk, dispatching on the file extension:
// .json documents directly, .zip archives via their embedded bundle.json.
// Returns ErrUnsupportedFile for anything else.
func (s *Service) ImportFile(ctx context.Context, path string) (*ImportReport, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read import file: %w", err)
		}
		return s.ImportJSON(ctx, data)

	case ".zip":
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
		}
		defer func() { _ = zr.Close() }()

		for _, f := range zr.File {
			if f.Name != "bundle.json" {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
			}
			data, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
			}
			return s.ImportJSON(ctx, data)
		}
		return nil, fmt.Errorf("%w: archive has no bundle.json", ErrInvalidBundle)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}
}

// writeArchiveFile adds one file to the zip archive.
func writeArchiveFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}
