package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/store"
)

func TestCreateFromHighlightFallbacks(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource := env.captureResource(t, "https://example.com/a")

	t.Run("explicit front and back are kept", func(t *testing.T) {
		highlight, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
			"highlighted text", "", domain.HighlightPosition{}, "", "a note")
		require.NoError(t, err)

		card, err := env.flashcardSvc.CreateFromHighlight(ctx, highlight.ID, "Q", "A")
		require.NoError(t, err)
		assert.Equal(t, "Q", card.Front)
		assert.Equal(t, "A", card.Back)
		require.NotNil(t, card.HighlightID)
		assert.Equal(t, highlight.ID, *card.HighlightID)
		assert.Equal(t, resource.ID, card.ResourceID)
	})

	t.Run("empty front falls back to the note", func(t *testing.T) {
		highlight, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
			"highlighted text", "", domain.HighlightPosition{}, "", "why does this matter?")
		require.NoError(t, err)

		card, err := env.flashcardSvc.CreateFromHighlight(ctx, highlight.ID, "", "")
		require.NoError(t, err)
		assert.Equal(t, "why does this matter?", card.Front)
		assert.Equal(t, "highlighted text", card.Back, "empty back falls back to the highlighted text")
	})

	t.Run("empty front without a note gets a generic prompt", func(t *testing.T) {
		highlight, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
			"highlighted text", "", domain.HighlightPosition{}, "", "")
		require.NoError(t, err)

		card, err := env.flashcardSvc.CreateFromHighlight(ctx, highlight.ID, "", "")
		require.NoError(t, err)
		assert.Contains(t, card.Front, resource.URL)
	})
}

func TestCreateFromHighlightMissing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.flashcardSvc.CreateFromHighlight(context.Background(), uuid.New(), "Q", "A")
	assert.ErrorIs(t, err, store.ErrHighlightNotFound)
}

func TestGetDueFlashcards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource := env.captureResource(t, "https://example.com/a")

	due, err := env.flashcardSvc.CreateFlashcard(ctx, resource.ID, "due", "card", nil)
	require.NoError(t, err)

	scheduled, err := env.flashcardSvc.CreateFlashcard(ctx, resource.ID, "future", "card", nil)
	require.NoError(t, err)
	scheduled.NextReview = time.Now().UTC().AddDate(0, 0, 7)
	require.NoError(t, env.flashcards.Update(ctx, scheduled))

	cards, err := env.flashcardSvc.GetDueFlashcards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1, "new cards are due immediately, scheduled ones are not")
	assert.Equal(t, due.ID, cards[0].ID)
}

func TestReviewFlashcardPersistsSchedule(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource := env.captureResource(t, "https://example.com/a")
	card, err := env.flashcardSvc.CreateFlashcard(ctx, resource.ID, "Q", "A", nil)
	require.NoError(t, err)

	reviewed, err := env.flashcardSvc.ReviewFlashcard(ctx, card.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, reviewed.ReviewCount)
	assert.Equal(t, 1, reviewed.CorrectCount)
	assert.True(t, reviewed.NextReview.After(time.Now().UTC().AddDate(0, 0, 2)),
		"a correct first review schedules the card days out")

	// The schedule survives a reload.
	got, err := env.flashcardSvc.GetFlashcard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReviewCount)
	assert.True(t, got.NextReview.Equal(reviewed.NextReview))

	reviewed, err = env.flashcardSvc.ReviewFlashcard(ctx, card.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, reviewed.ReviewCount)
	assert.Equal(t, 1, reviewed.CorrectCount)
	assert.Equal(t, 2.5, reviewed.Difficulty)
}

func TestUpdateFlashcardPartialUpdate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource := env.captureResource(t, "https://example.com/a")
	card, err := env.flashcardSvc.CreateFlashcard(ctx, resource.ID, "Q", "A", nil)
	require.NoError(t, err)

	front := "Q, revised"
	updated, err := env.flashcardSvc.UpdateFlashcard(ctx, card.ID, FlashcardUpdate{Front: &front})
	require.NoError(t, err)
	assert.Equal(t, "Q, revised", updated.Front)
	assert.Equal(t, "A", updated.Back)
}
