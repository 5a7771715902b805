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

func newStoredFlashcard(t *testing.T, s *FlashcardStore, resourceID uuid.UUID, highlightID *uuid.UUID, nextReview time.Time) *domain.Flashcard {
	t.Helper()

	card, err := domain.NewFlashcard(resourceID, "front", "back", highlightID)
	require.NoError(t, err)
	card.NextReview = nextReview
	require.NoError(t, s.Create(context.Background(), card))
	return card
}

func TestFlashcardStoreCreateAndGet(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewFlashcardStore(db, slog.Default())
	ctx := context.Background()

	resourceID := uuid.New()
	highlightID := uuid.New()
	created := newStoredFlashcard(t, s, resourceID, &highlightID, time.Now().UTC())

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, resourceID, got.ResourceID)
	require.NotNil(t, got.HighlightID)
	assert.Equal(t, highlightID, *got.HighlightID)
	assert.Equal(t, domain.DefaultFlashcardDifficulty, got.Difficulty)
}

func TestFlashcardStoreNilHighlightRoundTrips(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewFlashcardStore(db, slog.Default())

	created := newStoredFlashcard(t, s, uuid.New(), nil, time.Now().UTC())

	got, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.HighlightID)
}

func TestFlashcardStoreGetDue(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewFlashcardStore(db, slog.Default())
	ctx := context.Background()
	now := time.Now().UTC()

	overdue := newStoredFlashcard(t, s, uuid.New(), nil, now.Add(-48*time.Hour))
	justDue := newStoredFlashcard(t, s, uuid.New(), nil, now.Add(-time.Minute))
	newStoredFlashcard(t, s, uuid.New(), nil, now.Add(72*time.Hour))

	due, err := s.GetDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2, "future cards are not due")
	assert.Equal(t, overdue.ID, due[0].ID, "most overdue first")
	assert.Equal(t, justDue.ID, due[1].ID)
}

func TestFlashcardStoreGetByResource(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewFlashcardStore(db, slog.Default())
	ctx := context.Background()

	resourceID := uuid.New()
	newStoredFlashcard(t, s, resourceID, nil, time.Now().UTC())
	newStoredFlashcard(t, s, resourceID, nil, time.Now().UTC())
	newStoredFlashcard(t, s, uuid.New(), nil, time.Now().UTC())

	cards, err := s.GetByResource(ctx, resourceID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestFlashcardStoreUpdateAppliesReviewResult(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewFlashcardStore(db, slog.Default())
	ctx := context.Background()

	card := newStoredFlashcard(t, s, uuid.New(), nil, time.Now().UTC())

	card.Difficulty = 3.1
	card.ReviewCount = 1
	card.CorrectCount = 1
	card.NextReview = time.Now().UTC().AddDate(0, 0, 3)
	require.NoError(t, s.Update(ctx, card))

	got, err := s.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.1, got.Difficulty)
	assert.Equal(t, 1, got.ReviewCount)
	assert.Equal(t, 1, got.CorrectCount)
	assert.True(t, got.NextReview.Equal(card.NextReview))
}

func TestFlashcardStoreDelete(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewFlashcardStore(db, slog.Default())
	ctx := context.Background()

	card := newStoredFlashcard(t, s, uuid.New(), nil, time.Now().UTC())

	require.NoError(t, s.Delete(ctx, card.ID))
	_, err := s.GetByID(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrFlashcardNotFound)
	assert.ErrorIs(t, s.Delete(ctx, card.ID), store.ErrFlashcardNotFound)
}

func TestFlashcardStoreBulkDeletes(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewFlashcardStore(db, slog.Default())
	ctx := context.Background()

	resourceID := uuid.New()
	highlightID := uuid.New()
	newStoredFlashcard(t, s, resourceID, &highlightID, time.Now().UTC())
	newStoredFlashcard(t, s, resourceID, nil, time.Now().UTC())
	keeper := newStoredFlashcard(t, s, uuid.New(), nil, time.Now().UTC())

	require.NoError(t, s.DeleteByHighlight(ctx, highlightID))
	require.NoError(t, s.DeleteByResource(ctx, resourceID))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keeper.ID, all[0].ID)

	// Bulk deletes matching nothing succeed.
	require.NoError(t, s.DeleteByResource(ctx, uuid.New()))
	require.NoError(t, s.DeleteByHighlight(ctx, uuid.New()))
}
