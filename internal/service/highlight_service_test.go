package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/store"
)

func (env *testEnv) captureResource(t *testing.T, url string) *domain.Resource {
	t.Helper()

	resource, err := env.resourceSvc.CreateResource(context.Background(),
		domain.ResourceTypePage, url, "Title for "+url, "content of "+url,
		domain.ResourceMetadata{})
	require.NoError(t, err)
	return resource
}

func TestCreateHighlightRepeatedTextIsNotDeduplicated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource := env.captureResource(t, "https://example.com/a")

	first, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
		"the same passage", "", domain.HighlightPosition{StartOffset: 10, EndOffset: 26}, "", "")
	require.NoError(t, err)

	second, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
		"the same passage", "", domain.HighlightPosition{StartOffset: 10, EndOffset: 26}, "", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "repeated annotations are distinct records")
	assert.Equal(t, domain.DefaultHighlightColor, first.Color)

	all, err := env.highlightSvc.GetHighlightsByResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateHighlightPartialUpdate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource := env.captureResource(t, "https://example.com/a")
	highlight, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
		"passage", "", domain.HighlightPosition{}, "green", "original note")
	require.NoError(t, err)

	color := "red"
	updated, err := env.highlightSvc.UpdateHighlight(ctx, highlight.ID, HighlightUpdate{Color: &color})
	require.NoError(t, err)

	assert.Equal(t, "red", updated.Color)
	assert.Equal(t, "original note", updated.Note, "fields not in the update survive")
	assert.Equal(t, "passage", updated.Text)
}

func TestDeleteHighlightCascadesToFlashcards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource := env.captureResource(t, "https://example.com/a")
	highlight, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
		"passage", "", domain.HighlightPosition{}, "", "")
	require.NoError(t, err)

	fromHighlight, err := env.flashcardSvc.CreateFromHighlight(ctx, highlight.ID, "front", "back")
	require.NoError(t, err)
	direct, err := env.flashcardSvc.CreateFlashcard(ctx, resource.ID, "front 2", "back 2", nil)
	require.NoError(t, err)

	require.NoError(t, env.highlightSvc.DeleteHighlight(ctx, highlight.ID))

	_, err = env.highlights.GetByID(ctx, highlight.ID)
	assert.ErrorIs(t, err, store.ErrHighlightNotFound)

	_, err = env.flashcards.GetByID(ctx, fromHighlight.ID)
	assert.ErrorIs(t, err, store.ErrFlashcardNotFound, "cards derived from the highlight go with it")

	_, err = env.flashcards.GetByID(ctx, direct.ID)
	assert.NoError(t, err, "cards anchored only to the resource stay")
}

func TestDeleteHighlightMissing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	err := env.highlightSvc.DeleteHighlight(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrHighlightNotFound)
}
