package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	ErrUserIDEmpty   = errors.New("user ID cannot be empty")
	ErrUserNameEmpty = errors.New("user name cannot be empty")
)

// UserPreferences holds the local user's display and behavior settings.
type UserPreferences struct {
	Theme          string `json:"theme"`
	Language       string `json:"language"`
	AutoTranslate  bool   `json:"auto_translate"`
	StudyReminders bool   `json:"study_reminders"`
	ExportFormat   string `json:"export_format"`
}

// User is the single local profile owning all captured data. There is no
// multi-user access control; the row exists so preferences and exports have
// a stable owner.
type User struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Preferences UserPreferences `json:"preferences"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DefaultUserPreferences returns the preferences a fresh local user starts with.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Theme:          "light",
		Language:       "en",
		AutoTranslate:  false,
		StudyReminders: true,
		ExportFormat:   "markdown",
	}
}

// NewUser creates a new User with a fresh ID, default preferences and current
// timestamps. Returns an error if validation fails.
func NewUser(name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:          uuid.New(),
		Name:        name,
		Preferences: DefaultUserPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.Name == "" {
		return ErrUserNameEmpty
	}

	return nil
}
