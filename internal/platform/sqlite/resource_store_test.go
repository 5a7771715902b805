package sqlite

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/store"
)

func newStoredResource(t *testing.T, s *ResourceStore, url, title, content string) *domain.Resource {
	t.Helper()

	resource, err := domain.NewResource(
		domain.ResourceTypePage, url, title, content,
		domain.ContentFingerprint(content+"|"+url),
		domain.ResourceMetadata{Domain: "example.com"},
	)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), resource))
	return resource
}

func TestResourceStoreCreateAndGet(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())
	ctx := context.Background()

	created := newStoredResource(t, s, "https://example.com/a", "Article A", "content of a")

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.URL, got.URL)
	assert.Equal(t, created.Metadata, got.Metadata)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))

	byURL, err := s.GetByURL(ctx, created.URL)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byURL.ID)

	byHash, err := s.GetByFingerprint(ctx, created.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byHash.ID)
}

func TestResourceStoreGetMissing(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())
	ctx := context.Background()

	_, err := s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrResourceNotFound)
	assert.True(t, store.IsNotFoundError(err))

	_, err = s.GetByURL(ctx, "https://example.com/nope")
	assert.ErrorIs(t, err, store.ErrResourceNotFound)
}

func TestResourceStoreUniqueConstraints(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())
	ctx := context.Background()

	existing := newStoredResource(t, s, "https://example.com/a", "Article A", "content of a")

	t.Run("duplicate url is rejected", func(t *testing.T) {
		dup, err := domain.NewResource(
			domain.ResourceTypePage, existing.URL, "Other Title", "other content",
			domain.ContentFingerprint("other content"), domain.ResourceMetadata{},
		)
		require.NoError(t, err)

		err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrURLExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("duplicate fingerprint is rejected", func(t *testing.T) {
		dup, err := domain.NewResource(
			domain.ResourceTypePage, "https://example.com/other", "Other Title", existing.Content,
			existing.ContentHash, domain.ResourceMetadata{},
		)
		require.NoError(t, err)

		err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrFingerprintExists)
		assert.True(t, store.IsDuplicateError(err))
	})
}

func TestResourceStoreSearch(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())
	ctx := context.Background()

	newStoredResource(t, s, "https://example.com/go", "Concurrency in Go", "goroutines and channels")
	newStoredResource(t, s, "https://example.com/py", "Python Basics", "interpreter and syntax")

	results, err := s.Search(ctx, "CONCURRENCY")
	require.NoError(t, err)
	require.Len(t, results, 1, "search is case-insensitive")
	assert.Equal(t, "Concurrency in Go", results[0].Title)

	results, err = s.Search(ctx, "goroutines")
	require.NoError(t, err)
	assert.Len(t, results, 1, "search matches content")

	results, err = s.Search(ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, results, 2, "search matches urls")
}

func TestResourceStoreGetByType(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())
	ctx := context.Background()

	newStoredResource(t, s, "https://example.com/a", "A", "a")

	video, err := domain.NewResource(
		domain.ResourceTypeVideo, "https://example.com/v", "V", "",
		domain.ContentFingerprint("V|https://example.com/v"), domain.ResourceMetadata{},
	)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, video))

	videos, err := s.GetByType(ctx, domain.ResourceTypeVideo)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, video.ID, videos[0].ID)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestResourceStoreUpdate(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())
	ctx := context.Background()

	resource := newStoredResource(t, s, "https://example.com/a", "A", "a")
	createdAt := resource.CreatedAt

	time.Sleep(5 * time.Millisecond)
	resource.Title = "A, revised"
	resource.StudyProgress.TimeSpent = 120
	resource.StudyProgress.CompletionPercentage = 40
	require.NoError(t, s.Update(ctx, resource))

	got, err := s.GetByID(ctx, resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "A, revised", got.Title)
	assert.Equal(t, int64(120), got.StudyProgress.TimeSpent)
	assert.Equal(t, 40, got.StudyProgress.CompletionPercentage)
	assert.True(t, got.CreatedAt.Equal(createdAt), "update must not touch CreatedAt")
	assert.True(t, got.UpdatedAt.After(createdAt))
}

func TestResourceStoreUpdateMissing(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())

	ghost, err := domain.NewResource(
		domain.ResourceTypePage, "https://example.com/ghost", "Ghost", "",
		domain.ContentFingerprint("ghost"), domain.ResourceMetadata{},
	)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Update(context.Background(), ghost), store.ErrResourceNotFound)
}

func TestResourceStoreDelete(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewResourceStore(db, slog.Default())
	ctx := context.Background()

	resource := newStoredResource(t, s, "https://example.com/a", "A", "a")

	require.NoError(t, s.Delete(ctx, resource.ID))

	_, err := s.GetByID(ctx, resource.ID)
	assert.ErrorIs(t, err, store.ErrResourceNotFound)

	assert.ErrorIs(t, s.Delete(ctx, resource.ID), store.ErrResourceNotFound)
}
