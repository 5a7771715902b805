package sqlite

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/store"
)

func TestUserStoreGetEmpty(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewUserStore(db, slog.Default())

	_, err := s.Get(context.Background())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestUserStoreCreateAndGet(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewUserStore(db, slog.Default())
	ctx := context.Background()

	user, err := domain.NewUser("Local User")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, user))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Local User", got.Name)
	assert.Equal(t, domain.DefaultUserPreferences(), got.Preferences)
}

func TestUserStoreUpdatePreferences(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	s := NewUserStore(db, slog.Default())
	ctx := context.Background()

	user, err := domain.NewUser("Local User")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, user))

	user.Preferences.Theme = "dark"
	user.Preferences.AutoTranslate = true
	require.NoError(t, s.Update(ctx, user))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Preferences.Theme)
	assert.True(t, got.Preferences.AutoTranslate)
}
