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

func TestCreateResourceFillsMetadata(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource, err := env.resourceSvc.CreateResource(ctx,
		domain.ResourceTypePage,
		"https://blog.example.com/posts/42",
		"Post 42",
		"one two three four",
		domain.ResourceMetadata{},
	)
	require.NoError(t, err)

	assert.Equal(t, "blog.example.com", resource.Metadata.Domain)
	assert.Equal(t, 4, resource.Metadata.WordCount)
	assert.NotEmpty(t, resource.ContentHash)
}

func TestCreateResourceDeduplicatesByContent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.resourceSvc.CreateResource(ctx,
		domain.ResourceTypePage, "https://example.com/a", "Article", "the same content",
		domain.ResourceMetadata{})
	require.NoError(t, err)

	// Same content captured again, even from a different address, resolves
	// to the existing resource.
	second, err := env.resourceSvc.CreateResource(ctx,
		domain.ResourceTypePage, "https://example.com/a", "Article", "the same content",
		domain.ResourceMetadata{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := env.resources.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateResourceWithoutContentFingerprintsTitleAndURL(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.resourceSvc.CreateResource(ctx,
		domain.ResourceTypeVideo, "https://videos.example.com/v1", "A Talk", "",
		domain.ResourceMetadata{})
	require.NoError(t, err)

	second, err := env.resourceSvc.CreateResource(ctx,
		domain.ResourceTypeVideo, "https://videos.example.com/v1", "A Talk", "",
		domain.ResourceMetadata{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpdateProgressPartialUpdate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource, err := env.resourceSvc.CreateResource(ctx,
		domain.ResourceTypePage, "https://example.com/a", "A", "content",
		domain.ResourceMetadata{})
	require.NoError(t, err)

	timeSpent := int64(300)
	completion := 60
	updated, err := env.resourceSvc.UpdateProgress(ctx, resource.ID, ProgressUpdate{
		TimeSpent:            &timeSpent,
		CompletionPercentage: &completion,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(300), updated.StudyProgress.TimeSpent)
	assert.Equal(t, 60, updated.StudyProgress.CompletionPercentage)
	assert.True(t, updated.StudyProgress.LastVisited.After(resource.StudyProgress.LastVisited) ||
		updated.StudyProgress.LastVisited.Equal(resource.StudyProgress.LastVisited),
		"LastVisited defaults to now when not supplied")

	// Untouched fields survive a later partial update.
	reviews := 2
	updated, err = env.resourceSvc.UpdateProgress(ctx, resource.ID, ProgressUpdate{ReviewCount: &reviews})
	require.NoError(t, err)
	assert.Equal(t, int64(300), updated.StudyProgress.TimeSpent)
	assert.Equal(t, 2, updated.StudyProgress.ReviewCount)
}

func TestUpdateProgressMissingResource(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.resourceSvc.UpdateProgress(context.Background(), uuid.New(), ProgressUpdate{})
	assert.ErrorIs(t, err, store.ErrResourceNotFound)
}

func TestDeleteResourceCascades(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	resource, err := env.resourceSvc.CreateResource(ctx,
		domain.ResourceTypePage, "https://example.com/a", "A", "content",
		domain.ResourceMetadata{})
	require.NoError(t, err)

	highlight, err := env.highlightSvc.CreateHighlight(ctx, resource.ID, resource.URL,
		"selected text", "", domain.HighlightPosition{}, "", "")
	require.NoError(t, err)

	_, err = env.flashcardSvc.CreateFromHighlight(ctx, highlight.ID, "front", "back")
	require.NoError(t, err)
	_, err = env.flashcardSvc.CreateFlashcard(ctx, resource.ID, "front 2", "back 2", nil)
	require.NoError(t, err)

	require.NoError(t, env.resourceSvc.DeleteResource(ctx, resource.ID))

	_, err = env.resources.GetByID(ctx, resource.ID)
	assert.ErrorIs(t, err, store.ErrResourceNotFound)

	highlights, err := env.highlights.GetByResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Empty(t, highlights, "highlights are deleted with their resource")

	cards, err := env.flashcards.GetByResource(ctx, resource.ID)
	require.NoError(t, err)
	assert.Empty(t, cards, "flashcards are deleted with their resource")
}

func TestDeleteResourceMissing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	err := env.resourceSvc.DeleteResource(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrResourceNotFound)
}
