package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/domain"
)

func TestFlashcardEndpoints(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resource := createTestResource(t, server, "https://example.com/a")
	highlight := createTestHighlight(t, server, resource)

	t.Run("create from resource", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, server.URL+"/flashcards", CreateFlashcardRequest{
			ResourceID: &resource.ID,
			Front:      "What is captured?",
			Back:       "A page",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
		card := decodeBody[*domain.Flashcard](t, body)
		assert.Equal(t, resource.ID, card.ResourceID)
		assert.Nil(t, card.HighlightID)
	})

	t.Run("create from highlight falls back to its text", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, server.URL+"/flashcards", CreateFlashcardRequest{
			HighlightID: &highlight.ID,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
		card := decodeBody[*domain.Flashcard](t, body)
		require.NotNil(t, card.HighlightID)
		assert.Equal(t, highlight.ID, *card.HighlightID)
		assert.Equal(t, highlight.Text, card.Back)
	})

	t.Run("create without any anchor is a 400", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/flashcards", CreateFlashcardRequest{
			Front: "Q", Back: "A",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("due listing and review", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/flashcards?due=true", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		due := decodeBody[[]*domain.Flashcard](t, body)
		require.NotEmpty(t, due, "fresh cards are immediately due")

		correct := true
		resp, body = doJSON(t, http.MethodPost, server.URL+"/flashcards/"+due[0].ID.String()+"/review",
			ReviewFlashcardRequest{Correct: &correct})
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
		reviewed := decodeBody[*domain.Flashcard](t, body)
		assert.Equal(t, 1, reviewed.ReviewCount)
		assert.Equal(t, 1, reviewed.CorrectCount)

		// The reviewed card left the due queue.
		resp, body = doJSON(t, http.MethodGet, server.URL+"/flashcards?due=true", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		stillDue := decodeBody[[]*domain.Flashcard](t, body)
		for _, card := range stillDue {
			assert.NotEqual(t, reviewed.ID, card.ID)
		}
	})

	t.Run("review without outcome is a 400", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/flashcards", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		cards := decodeBody[[]*domain.Flashcard](t, body)
		require.NotEmpty(t, cards)

		resp, _ = doJSON(t, http.MethodPost, server.URL+"/flashcards/"+cards[0].ID.String()+"/review",
			ReviewFlashcardRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update difficulty out of range is a 400", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/flashcards", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		cards := decodeBody[[]*domain.Flashcard](t, body)
		require.NotEmpty(t, cards)

		difficulty := 9.0
		resp, _ = doJSON(t, http.MethodPatch, server.URL+"/flashcards/"+cards[0].ID.String(),
			UpdateFlashcardRequest{Difficulty: &difficulty})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
