package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHighlight(t *testing.T) {
	t.Parallel()
	resourceID := uuid.New()
	position := HighlightPosition{StartOffset: 10, EndOffset: 42, Selector: "/html/body/p[3]"}

	highlight, err := NewHighlight(
		resourceID,
		"https://example.com/article",
		"the highlighted passage",
		"text surrounding the highlighted passage",
		position,
		"",
		"worth revisiting",
	)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, highlight.ID)
	assert.Equal(t, resourceID, highlight.ResourceID)
	assert.Equal(t, position, highlight.Position)
	assert.Equal(t, DefaultHighlightColor, highlight.Color, "empty color falls back to the default")
	assert.Equal(t, highlight.CreatedAt, highlight.UpdatedAt)
}

func TestHighlightValidate(t *testing.T) {
	t.Parallel()

	highlight, err := NewHighlight(uuid.New(), "https://example.com", "text", "", HighlightPosition{}, "green", "")
	require.NoError(t, err)

	highlight.Text = ""
	assert.ErrorIs(t, highlight.Validate(), ErrHighlightTextEmpty)

	highlight.Text = "text"
	highlight.ResourceID = uuid.Nil
	assert.ErrorIs(t, highlight.Validate(), ErrHighlightResourceIDEmpty)

	highlight.ResourceID = uuid.New()
	highlight.ID = uuid.Nil
	assert.ErrorIs(t, highlight.Validate(), ErrHighlightIDEmpty)
}
