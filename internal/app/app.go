// Package app assembles the application: store, services, bus and HTTP
// router, built once and torn down with Close. Both the server binary and
// the CLI wire through here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/notumhq/notum/internal/api"
	"github.com/notumhq/notum/internal/bus"
	"github.com/notumhq/notum/internal/config"
	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/domain/srs"
	"github.com/notumhq/notum/internal/platform/sqlite"
	"github.com/notumhq/notum/internal/service"
	"github.com/notumhq/notum/internal/service/export"
)

// Application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sqlite.DB

	Dispatcher *bus.Dispatcher
	Workers    *bus.WorkerPool

	Resources  *service.ResourceService
	Highlights *service.HighlightService
	Tracks     *service.TrackService
	Flashcards *service.FlashcardService
	Users      *service.UserService
	Exporter   *export.Service
}

// New creates an Application with all dependencies initialized: the store is
// opened and migrated, the local user ensured, services wired, and the bus
// handlers registered.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	db, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	resourceStore := sqlite.NewResourceStore(db, logger)
	highlightStore := sqlite.NewHighlightStore(db, logger)
	trackStore := sqlite.NewTrackStore(db, logger)
	flashcardStore := sqlite.NewFlashcardStore(db, logger)
	userStore := sqlite.NewUserStore(db, logger)

	app := &Application{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}

	app.Resources = service.NewResourceService(db, resourceStore, highlightStore, flashcardStore, logger)
	app.Highlights = service.NewHighlightService(db, highlightStore, flashcardStore, logger)
	app.Tracks = service.NewTrackService(trackStore, logger)
	app.Flashcards = service.NewFlashcardService(flashcardStore, highlightStore, srs.NewDefaultService(), logger)
	app.Users = service.NewUserService(userStore, logger)

	if _, err := app.Users.EnsureLocalUser(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure local user: %w", err)
	}

	app.Dispatcher = bus.NewDispatcher(logger)
	app.registerBusHandlers()

	app.Workers = bus.NewWorkerPool(app.Dispatcher, bus.WorkerPoolConfig{
		WorkerCount: cfg.Worker.Count,
		CallTimeout: time.Duration(cfg.Worker.TimeoutSeconds) * time.Second,
	}, logger)

	app.Exporter = export.NewService(
		resourceStore, highlightStore, flashcardStore, trackStore, userStore,
		export.NewWorkerRenderer(app.Workers), logger)

	logger.Info("application initialized", slog.String("database", cfg.Database.Path))
	return app, nil
}

// registerBusHandlers installs one handler per message kind. Anything else
// hitting the dispatcher fails with bus.ErrUnknownKind.
func (a *Application) registerBusHandlers() {
	a.Dispatcher.Register(bus.KindCaptureText, func(ctx context.Context, msg bus.Message) (any, error) {
		payload, ok := msg.(bus.CaptureTextPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload %T", bus.ErrUnknownKind, msg)
		}
		// Metadata gaps (domain, word count) are derived by the service.
		return a.Resources.CreateResource(ctx, payload.Type, payload.URL, payload.Title, payload.Content,
			domain.ResourceMetadata{})
	})

	a.Dispatcher.Register(bus.KindAddToTrack, func(ctx context.Context, msg bus.Message) (any, error) {
		payload, ok := msg.(bus.AddToTrackPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload %T", bus.ErrUnknownKind, msg)
		}
		return a.Tracks.AddResourceToTrack(ctx, payload.TrackID, payload.ResourceID)
	})

	a.Dispatcher.Register(bus.KindReviewCard, func(ctx context.Context, msg bus.Message) (any, error) {
		payload, ok := msg.(bus.ReviewCardPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload %T", bus.ErrUnknownKind, msg)
		}
		return a.Flashcards.ReviewFlashcard(ctx, payload.FlashcardID, payload.Correct)
	})

	a.Dispatcher.Register(bus.KindRenderMarkdown, export.MarkdownHandler)

	// The translation collaborator is opaque; the stub echoes the text so
	// callers degrade gracefully until a real handler is registered.
	a.Dispatcher.Register(bus.KindTranslateText, func(_ context.Context, msg bus.Message) (any, error) {
		payload, ok := msg.(bus.TranslateTextPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload %T", bus.ErrUnknownKind, msg)
		}
		return payload.Text, nil
	})
}

// Router builds the HTTP router over the application's handlers.
func (a *Application) Router() http.Handler {
	return api.NewRouter(api.Handlers{
		Resources:  api.NewResourceHandler(a.Resources, a.Logger),
		Highlights: api.NewHighlightHandler(a.Highlights, a.Logger),
		Tracks:     api.NewTrackHandler(a.Tracks, a.Logger),
		Flashcards: api.NewFlashcardHandler(a.Flashcards, a.Logger),
		Export:     api.NewExportHandler(a.Exporter, a.Logger),
	})
}

// Close handles graceful shutdown of application resources.
func (a *Application) Close() {
	if a.Workers != nil {
		a.Workers.Stop()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("error closing database", slog.String("error", err.Error()))
		}
	}
	a.Logger.Info("application shutdown completed")
}
