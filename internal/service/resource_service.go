package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// ResourceService manages captured content units. Creation deduplicates by
// content fingerprint; deletion cascades to owned highlights and flashcards
// inside one transaction.
type ResourceService struct {
	db         store.TxBeginner
	resources  store.ResourceStore
	highlights store.HighlightStore
	flashcards store.FlashcardStore
	logger     *slog.Logger
}

// NewResourceService creates a new ResourceService.
func NewResourceService(
	db store.TxBeginner,
	resources store.ResourceStore,
	highlights store.HighlightStore,
	flashcards store.FlashcardStore,
	log *slog.Logger,
) *ResourceService {
	if db == nil {
		panic("db cannot be nil")
	}
	if resources == nil {
		panic("resources cannot be nil")
	}
	if highlights == nil {
		panic("highlights cannot be nil")
	}
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ResourceService{
		db:         db,
		resources:  resources,
		highlights: highlights,
		flashcards: flashcards,
		logger:     log.With(slog.String("component", "resource_service")),
	}
}

// CreateResource captures a new content unit, deduplicating by content
// fingerprint: when a resource with the same fingerprint already exists it is
// returned unchanged, with no error and no duplicate write. The fingerprint
// covers the content when present, otherwise title+url. Metadata gaps are
// filled from the input: Domain from the url's hostname, WordCount from the
// content.
func (s *ResourceService) CreateResource(
	ctx context.Context,
	typ domain.ResourceType,
	rawURL, title, content string,
	metadata domain.ResourceMetadata,
) (*domain.Resource, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fingerprint := contentFingerprint(rawURL, title, content)

	existing, err := s.resources.GetByFingerprint(ctx, fingerprint)
	if err == nil {
		log.Debug("resource capture deduplicated",
			slog.String("resource_id", existing.ID.String()),
			slog.String("fingerprint", fingerprint))
		return existing, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check for existing resource: %w", err)
	}

	if metadata.Domain == "" {
		metadata.Domain = hostOf(rawURL)
	}
	if metadata.WordCount == 0 && content != "" {
		metadata.WordCount = len(strings.Fields(content))
	}

	resource, err := domain.NewResource(typ, rawURL, title, content, fingerprint, metadata)
	if err != nil {
		return nil, err
	}

	if err := s.resources.Create(ctx, resource); err != nil {
		// A concurrent capture may have won the insert race; the unique
		// indexes catch it, and the winning row is the dedup result.
		if store.IsDuplicateError(err) {
			if winner, readErr := s.resources.GetByFingerprint(ctx, fingerprint); readErr == nil {
				return winner, nil
			}
			if winner, readErr := s.resources.GetByURL(ctx, rawURL); readErr == nil {
				return winner, nil
			}
		}
		log.Error("failed to create resource",
			slog.String("error", err.Error()),
			slog.String("url", rawURL))
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	log.Debug("resource created",
		slog.String("resource_id", resource.ID.String()),
		slog.String("type", string(resource.Type)))
	return resource, nil
}

// GetResource retrieves a resource by id.
// Returns store.ErrResourceNotFound if it does not exist.
func (s *ResourceService) GetResource(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

// GetResourceByURL retrieves a resource by its exact URL.
// Returns store.ErrResourceNotFound if no resource has that URL.
func (s *ResourceService) GetResourceByURL(ctx context.Context, rawURL string) (*domain.Resource, error) {
	return s.resources.GetByURL(ctx, rawURL)
}

// GetAllResources returns all resources, newest-created-first.
func (s *ResourceService) GetAllResources(ctx context.Context) ([]*domain.Resource, error) {
	return s.resources.GetAll(ctx)
}

// GetResourcesByType returns resources with the exact given type.
func (s *ResourceService) GetResourcesByType(ctx context.Context, typ domain.ResourceType) ([]*domain.Resource, error) {
	return s.resources.GetByType(ctx, typ)
}

// SearchResources returns resources whose title, content or url contains the
// query, case-insensitively.
func (s *ResourceService) SearchResources(ctx context.Context, query string) ([]*domain.Resource, error) {
	return s.resources.Search(ctx, query)
}

// ProgressUpdate carries the study-progress fields an UpdateProgress call
// wants to change; nil fields are left untouched.
type ProgressUpdate struct {
	TimeSpent            *int64
	LastVisited          *time.Time
	CompletionPercentage *int
	ReviewCount          *int
}

// UpdateProgress merges the supplied fields into the resource's study
// progress. LastVisited defaults to now when not supplied; all other
// unspecified fields keep their stored values.
func (s *ResourceService) UpdateProgress(ctx context.Context, id uuid.UUID, update ProgressUpdate) (*domain.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.TimeSpent != nil {
		resource.StudyProgress.TimeSpent = *update.TimeSpent
	}
	if update.CompletionPercentage != nil {
		resource.StudyProgress.CompletionPercentage = *update.CompletionPercentage
	}
	if update.ReviewCount != nil {
		resource.StudyProgress.ReviewCount = *update.ReviewCount
	}
	if update.LastVisited != nil {
		resource.StudyProgress.LastVisited = *update.LastVisited
	} else {
		resource.StudyProgress.LastVisited = time.Now().UTC()
	}

	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to update resource progress: %w", err)
	}

	return resource, nil
}

// DeleteResource removes the resource and every highlight and flashcard
// whose owning-resource id matches, as one transaction.
func (s *ResourceService) DeleteResource(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.flashcards.WithTx(tx).DeleteByResource(ctx, id); err != nil {
			return fmt.Errorf("failed to delete owned flashcards: %w", err)
		}
		if err := s.highlights.WithTx(tx).DeleteByResource(ctx, id); err != nil {
			return fmt.Errorf("failed to delete owned highlights: %w", err)
		}
		if err := s.resources.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete resource",
			slog.String("error", err.Error()),
			slog.String("resource_id", id.String()))
		return err
	}

	log.Debug("resource deleted with cascade", slog.String("resource_id", id.String()))
	return nil
}

// contentFingerprint computes the dedup fingerprint for a capture: over the
// content when present, otherwise over title+url.
func contentFingerprint(rawURL, title, content string) string {
	if content != "" {
		return domain.ContentFingerprint(content)
	}
	return domain.ContentFingerprint(title + rawURL)
}

// hostOf extracts the hostname from a raw URL, or returns "" when it cannot
// be parsed.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
