package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notumhq/notum/internal/domain"
	"github.com/notumhq/notum/internal/platform/logger"
	"github.com/notumhq/notum/internal/store"
)

// DefaultUserName is the name the local user profile is created with when no
// profile exists yet.
const DefaultUserName = "Local User"

// UserService manages the single local user profile that owns all captured
// data and holds the preferences used by exports.
type UserService struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, log *slog.Logger) *UserService {
	if users == nil {
		panic("users cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &UserService{
		users:  users,
		logger: log.With(slog.String("component", "user_service")),
	}
}

// EnsureLocalUser returns the local user profile, creating it with default
// preferences on first use.
func (s *UserService) EnsureLocalUser(ctx context.Context) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.Get(ctx)
	if err == nil {
		return user, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load local user: %w", err)
	}

	user, err = domain.NewUser(DefaultUserName)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create local user: %w", err)
	}

	log.Debug("local user created", slog.String("user_id", user.ID.String()))
	return user, nil
}

// GetUser returns the local user profile.
// Returns store.ErrUserNotFound when no profile exists yet.
func (s *UserService) GetUser(ctx context.Context) (*domain.User, error) {
	return s.users.Get(ctx)
}

// UpdatePreferences replaces the local user's preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, prefs domain.UserPreferences) (*domain.User, error) {
	user, err := s.users.Get(ctx)
	if err != nil {
		return nil, err
	}

	user.Preferences = prefs
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return user, nil
}
