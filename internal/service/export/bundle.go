// Package export builds portable bundles of the store's contents and
// reconstructs them elsewhere, deduplicating resources by url. Exports come
// in two shapes: a flat JSON document and a zip archive with rendered
// markdown documents alongside the bundle.
package export

import (
	"errors"
	"time"

	"github.com/notumhq/notum/internal/domain"
)

// BundleVersion tags the bundle format. Upgrades are additive; an importer
// accepts any bundle whose required fields validate.
const BundleVersion = "1.0"

// Export/import errors.
var (
	// ErrInvalidBundle is returned when an import document is not valid
	// JSON, or its required top-level fields are missing or mistyped.
	ErrInvalidBundle = errors.New("invalid export bundle")

	// ErrUnsupportedFile is returned when ImportFile is given a path whose
	// extension is neither .json nor .zip.
	ErrUnsupportedFile = errors.New("unsupported import file type")
)

// Bundle is the portable export document: a version tag, the export
// timestamp and the selected records. Assets and translations are always
// present but empty in the current scope.
type Bundle struct {
	Version      string                `json:"version" validate:"required"`
	ExportedAt   time.Time             `json:"exported_at" validate:"required"`
	User         *domain.User          `json:"user,omitempty"`
	Tracks       []*domain.StudyTrack  `json:"tracks"`
	Resources    []*domain.Resource    `json:"resources"`
	Highlights   []*domain.Highlight   `json:"highlights"`
	Flashcards   []*domain.Flashcard   `json:"flashcards"`
	Assets       []*domain.Asset       `json:"assets"`
	Translations []*domain.Translation `json:"translations"`
}

// ImportReport counts what a best-effort import did per entity: records
// written, records reusing an existing row, and records skipped after a
// per-record failure.
type ImportReport struct {
	ResourcesImported  int `json:"resources_imported"`
	ResourcesReused    int `json:"resources_reused"`
	ResourcesSkipped   int `json:"resources_skipped"`
	HighlightsImported int `json:"highlights_imported"`
	HighlightsSkipped  int `json:"highlights_skipped"`
	FlashcardsImported int `json:"flashcards_imported"`
	FlashcardsSkipped  int `json:"flashcards_skipped"`
	TracksImported     int `json:"tracks_imported"`
	TracksSkipped      int `json:"tracks_skipped"`
}
