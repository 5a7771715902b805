package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// UserStore implements the store.UserStore interface using sqlite as the
// storage backend. There is exactly one local user row.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a new sqlite implementation of the UserStore
// interface. If logger is nil, a default logger will be used.
func NewUserStore(db store.DBTX, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: log.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	prefs, err := marshalColumn(user.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal user preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, preferences, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, prefs, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Debug("local user created", slog.String("user_id", user.ID.String()))
	return nil
}

// Get implements store.UserStore.Get. Only one user row is ever written, so
// the oldest row is the local user.
func (s *UserStore) Get(ctx context.Context) (*domain.User, error) {
	var (
		user  domain.User
		prefs string
	)

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, preferences, created_at, updated_at
		FROM users ORDER BY created_at ASC LIMIT 1`)

	err := row.Scan(&user.ID, &user.Name, &prefs, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	if err := unmarshalColumn(prefs, &user.Preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user preferences: %w", err)
	}

	return &user, nil
}

// Update implements store.UserStore.Update.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	user.UpdatedAt = time.Now().UTC()

	prefs, err := marshalColumn(user.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal user preferences: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, preferences = ?, updated_at = ?
		WHERE id = ?`,
		user.Name, prefs, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}
