package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudyTrack(t *testing.T) {
	t.Parallel()

	track, err := NewStudyTrack("Go Basics", "Learn the language", "Read and practice", nil, true)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, track.ID)
	assert.True(t, track.IsTemplate)
	assert.Equal(t, TrackDifficultyBeginner, track.Difficulty)
	assert.NotNil(t, track.Prerequisites)
	assert.Empty(t, track.Resources)
	assert.Empty(t, track.Milestones)
	assert.NotNil(t, track.Progress.CompletedResources)
	assert.Nil(t, track.Progress.StartedAt)
}

func TestStudyTrackValidate(t *testing.T) {
	t.Parallel()

	track, err := NewStudyTrack("Track", "", "", nil, false)
	require.NoError(t, err)

	track.Name = ""
	assert.ErrorIs(t, track.Validate(), ErrTrackNameEmpty)

	track.Name = "Track"
	track.Difficulty = "expert"
	assert.ErrorIs(t, track.Validate(), ErrInvalidTrackDifficulty)

	track.Difficulty = TrackDifficultyAdvanced
	track.ID = uuid.Nil
	assert.ErrorIs(t, track.Validate(), ErrTrackIDEmpty)
}

func TestAppendMilestone(t *testing.T) {
	t.Parallel()

	track, err := NewStudyTrack("Track", "", "", nil, false)
	require.NoError(t, err)

	first := track.AppendMilestone("Read the intro", "", nil)
	second := track.AppendMilestone("Finish chapter one", "with exercises", []uuid.UUID{uuid.New()})

	require.Len(t, track.Milestones, 2)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Completed)
	assert.NotNil(t, first.RequiredResources)
	assert.Len(t, second.RequiredResources, 1)
}

func TestIsCompleted(t *testing.T) {
	t.Parallel()

	track, err := NewStudyTrack("Track", "", "", nil, false)
	require.NoError(t, err)

	assert.False(t, track.IsCompleted(), "a track without milestones is never completed")

	track.AppendMilestone("one", "", nil)
	track.AppendMilestone("two", "", nil)
	assert.False(t, track.IsCompleted())

	now := time.Now().UTC()
	for i := range track.Milestones {
		track.Milestones[i].Completed = true
		track.Milestones[i].CompletedAt = &now
	}
	assert.True(t, track.IsCompleted())
}
