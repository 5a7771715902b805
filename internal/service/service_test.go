package service

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/domain/srs"
	"github.com/notumhq/notum/internal/platform/sqlite"
)

// testEnv wires the services against a real database in a per-test temp
// directory, so cascade and dedup behavior is exercised end to end.
type testEnv struct {
	db         *sqlite.DB
	resources  *sqlite.ResourceStore
	highlights *sqlite.HighlightStore
	flashcards *sqlite.FlashcardStore
	tracks     *sqlite.TrackStore
	users      *sqlite.UserStore

	resourceSvc  *ResourceService
	highlightSvc *HighlightService
	flashcardSvc *FlashcardService
	trackSvc     *TrackService
	userSvc      *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.Default()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "notum.db"), log)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() {
		_ = db.Close()
	})

	env := &testEnv{
		db:         db,
		resources:  sqlite.NewResourceStore(db, log),
		highlights: sqlite.NewHighlightStore(db, log),
		flashcards: sqlite.NewFlashcardStore(db, log),
		tracks:     sqlite.NewTrackStore(db, log),
		users:      sqlite.NewUserStore(db, log),
	}

	env.resourceSvc = NewResourceService(db, env.resources, env.highlights, env.flashcards, log)
	env.highlightSvc = NewHighlightService(db, env.highlights, env.flashcards, log)
	env.flashcardSvc = NewFlashcardService(env.flashcards, env.highlights, srs.NewDefaultService(), log)
	env.trackSvc = NewTrackService(env.tracks, log)
	env.userSvc = NewUserService(env.users, log)

	return env
}
