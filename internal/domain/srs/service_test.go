package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/domain"
)

func newTestCard(t *testing.T) *domain.Flashcard {
	t.Helper()
	card, err := domain.NewFlashcard(uuid.New(), "front", "back", nil)
	require.NoError(t, err, "Failed to create flashcard")
	return card
}

func TestReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name             string
		setup            func(card *domain.Flashcard)
		correct          bool
		expectDifficulty float64
		expectInterval   int
		expectReviews    int
		expectCorrect    int
	}{
		{
			name:    "first correct review keeps difficulty and uses it as the interval",
			correct: true,
			// 2.5^0 * 3.0 = 3 days; no nudge on the first-ever review.
			expectDifficulty: 3.0,
			expectInterval:   3,
			expectReviews:    1,
			expectCorrect:    1,
		},
		{
			name:             "incorrect review drops difficulty and resets to one day",
			correct:          false,
			expectDifficulty: 2.5,
			expectInterval:   1,
			expectReviews:    1,
			expectCorrect:    0,
		},
		{
			name: "second correct review compounds the interval and nudges difficulty up",
			setup: func(card *domain.Flashcard) {
				card.ReviewCount = 1
				card.CorrectCount = 1
			},
			correct: true,
			// 2.5^1 * 3.0 = 7.5, rounds to 8.
			expectDifficulty: 3.1,
			expectInterval:   8,
			expectReviews:    2,
			expectCorrect:    2,
		},
		{
			name: "incorrect review after many corrects still resets to one day",
			setup: func(card *domain.Flashcard) {
				card.ReviewCount = 4
				card.CorrectCount = 4
				card.Difficulty = 3.3
			},
			correct:          false,
			expectDifficulty: 2.8,
			expectInterval:   1,
			expectReviews:    5,
			expectCorrect:    4,
		},
		{
			name: "interval is computed from pre-review difficulty",
			setup: func(card *domain.Flashcard) {
				card.ReviewCount = 2
				card.CorrectCount = 2
				card.Difficulty = 2.0
			},
			correct: true,
			// 2.5^2 * 2.0 = 12.5, rounds to 13 (not 2.1 * 6.25).
			expectDifficulty: 2.1,
			expectInterval:   13,
			expectReviews:    3,
			expectCorrect:    3,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card := newTestCard(t)
			if tc.setup != nil {
				tc.setup(card)
			}
			before := *card

			next, err := service.Review(card, tc.correct, now)
			require.NoError(t, err)

			assert.Equal(t, tc.expectDifficulty, next.Difficulty, "difficulty")
			assert.Equal(t, tc.expectReviews, next.ReviewCount, "review count")
			assert.Equal(t, tc.expectCorrect, next.CorrectCount, "correct count")
			assert.Equal(t, now.AddDate(0, 0, tc.expectInterval), next.NextReview, "next review")
			assert.Equal(t, now, next.UpdatedAt)

			// The input card must not be mutated.
			assert.Equal(t, before, *card)
		})
	}
}

func TestReviewNilCard(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()

	next, err := service.Review(nil, true, time.Now().UTC())
	assert.Nil(t, next)
	assert.ErrorIs(t, err, ErrNilCard)
}

func TestReviewDifficultyClamps(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Now().UTC()

	t.Run("difficulty never exceeds the maximum", func(t *testing.T) {
		t.Parallel()
		card := newTestCard(t)
		card.Difficulty = 5.0
		card.ReviewCount = 3

		next, err := service.Review(card, true, now)
		require.NoError(t, err)
		assert.Equal(t, 5.0, next.Difficulty)
	})

	t.Run("difficulty never falls below the minimum", func(t *testing.T) {
		t.Parallel()
		card := newTestCard(t)
		card.Difficulty = 1.2

		next, err := service.Review(card, false, now)
		require.NoError(t, err)
		assert.Equal(t, 1.0, next.Difficulty)
	})
}

func TestReviewIntervalClamps(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Now().UTC()

	// 2.5^7 * 5.0 is well past a year; the schedule caps out at 365 days.
	card := newTestCard(t)
	card.Difficulty = 5.0
	card.ReviewCount = 7
	card.CorrectCount = 7

	next, err := service.Review(card, true, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 365), next.NextReview)
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	params.BaseMultiplier = 2.0
	params.MaxIntervalDays = 30
	service := NewServiceWithParams(params)
	now := time.Now().UTC()

	card := newTestCard(t)
	card.ReviewCount = 2
	card.CorrectCount = 2

	// 2.0^2 * 3.0 = 12 days under the custom multiplier.
	next, err := service.Review(card, true, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 12), next.NextReview)
}
