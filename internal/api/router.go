package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/notumhq/notum/internal/api/middleware"
)

// Handlers bundles the handler set the router mounts.
type Handlers struct {
	Resources  *ResourceHandler
	Highlights *HighlightHandler
	Tracks     *TrackHandler
	Flashcards *FlashcardHandler
	Export     *ExportHandler
}

// NewRouter builds the chi router for the browser-integration surface.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Route("/resources", func(r chi.Router) {
		r.Post("/", h.Resources.Create)
		r.Get("/", h.Resources.List)
		r.Get("/{id}", h.Resources.Get)
		r.Patch("/{id}/progress", h.Resources.UpdateProgress)
		r.Delete("/{id}", h.Resources.Delete)
	})

	r.Route("/highlights", func(r chi.Router) {
		r.Post("/", h.Highlights.Create)
		r.Get("/", h.Highlights.List)
		r.Get("/{id}", h.Highlights.Get)
		r.Patch("/{id}", h.Highlights.Update)
		r.Delete("/{id}", h.Highlights.Delete)
	})

	r.Route("/tracks", func(r chi.Router) {
		r.Post("/", h.Tracks.Create)
		r.Get("/", h.Tracks.List)
		r.Get("/{id}", h.Tracks.Get)
		r.Post("/{id}/resources", h.Tracks.AddResource)
		r.Delete("/{id}/resources/{resourceID}", h.Tracks.RemoveResource)
		r.Post("/{id}/milestones", h.Tracks.AddMilestone)
		r.Post("/{id}/milestones/{milestoneID}/complete", h.Tracks.CompleteMilestone)
		r.Patch("/{id}/progress", h.Tracks.UpdateProgress)
		r.Post("/{id}/duplicate", h.Tracks.Duplicate)
		r.Delete("/{id}", h.Tracks.Delete)
	})

	r.Route("/flashcards", func(r chi.Router) {
		r.Post("/", h.Flashcards.Create)
		r.Get("/", h.Flashcards.List)
		r.Get("/{id}", h.Flashcards.Get)
		r.Patch("/{id}", h.Flashcards.Update)
		r.Post("/{id}/review", h.Flashcards.Review)
		r.Delete("/{id}", h.Flashcards.Delete)
	})

	r.Get("/export", h.Export.Export)
	r.Post("/import", h.Export.Import)

	return r
}
