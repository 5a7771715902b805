package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/bus"
	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/domain/srs"
	"github.com/notumhq/notum/internal/platform/sqlite"
	"github.com/notumhq/notum/internal/service"
	"github.com/notumhq/notum/internal/service/export"
)

// newTestServer stands up the full router over a real database, so handler
// tests exercise routing, decoding, services and storage together.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slog.Default()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "notum.db"), log)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() {
		_ = db.Close()
	})

	resources := sqlite.NewResourceStore(db, log)
	highlights := sqlite.NewHighlightStore(db, log)
	flashcards := sqlite.NewFlashcardStore(db, log)
	tracks := sqlite.NewTrackStore(db, log)
	users := sqlite.NewUserStore(db, log)

	resourceSvc := service.NewResourceService(db, resources, highlights, flashcards, log)
	highlightSvc := service.NewHighlightService(db, highlights, flashcards, log)
	flashcardSvc := service.NewFlashcardService(flashcards, highlights, srs.NewDefaultService(), log)
	trackSvc := service.NewTrackService(tracks, log)

	dispatcher := bus.NewDispatcher(log)
	dispatcher.Register(bus.KindRenderMarkdown, export.MarkdownHandler)
	pool := bus.NewWorkerPool(dispatcher, bus.DefaultWorkerPoolConfig(), log)
	t.Cleanup(pool.Stop)

	exporter := export.NewService(resources, highlights, flashcards, tracks, users,
		export.NewWorkerRenderer(pool), log)

	router := NewRouter(Handlers{
		Resources:  NewResourceHandler(resourceSvc, log),
		Highlights: NewHighlightHandler(highlightSvc, log),
		Tracks:     NewTrackHandler(trackSvc, log),
		Flashcards: NewFlashcardHandler(flashcardSvc, log),
		Export:     NewExportHandler(exporter, log),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(data, &v), "unexpected response body: %s", data)
	return v
}

func createTestResource(t *testing.T, server *httptest.Server, url string) *domain.Resource {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/resources", CreateResourceRequest{
		Type:    "page",
		URL:     url,
		Title:   "Title for " + url,
		Content: "content of " + url,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	resource := decodeBody[*domain.Resource](t, body)
	return resource
}

func createTestHighlight(t *testing.T, server *httptest.Server, resource *domain.Resource) *domain.Highlight {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/highlights", CreateHighlightRequest{
		ResourceID: resource.ID,
		URL:        resource.URL,
		Text:       "selected passage",
		Position:   HighlightPositionRequest{StartOffset: 10, EndOffset: 26},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	return decodeBody[*domain.Highlight](t, body)
}

func createTestTrack(t *testing.T, server *httptest.Server, name string, isTemplate bool) *domain.StudyTrack {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/tracks", CreateTrackRequest{
		Name:       name,
		IsTemplate: isTemplate,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	return decodeBody[*domain.StudyTrack](t, body)
}

func trackURL(server *httptest.Server, track *domain.StudyTrack, suffix string) string {
	return fmt.Sprintf("%s/tracks/%s%s", server.URL, track.ID, suffix)
}
