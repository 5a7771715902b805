package store

import (
	"context"

	"github.com/notumhq/notum/internal/domain"
)

// UserStore defines the interface for the single local user record.
type UserStore interface {
	// Create saves the local user.
	Create(ctx context.Context, user *domain.User) error

	// Get returns the local user.
	// Returns ErrUserNotFound when no user row exists yet.
	Get(ctx context.Context) (*domain.User, error)

	// Update rewrites the stored user and refreshes UpdatedAt.
	// Returns ErrUserNotFound if no user row exists.
	Update(ctx context.Context, user *domain.User) error
}
