package service

import (
	"errors"
	"fmt"

	"github.com/notumhq/notum/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Store errors propagate through services unchanged; only conditions the
// stores cannot express live here. Callers check for specific conditions with
// errors.Is(), and the API layer maps them to HTTP status codes.
var (
	// ErrNotATemplate indicates that a template-only operation targeted a
	// track whose template flag is false.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNotATemplate = errors.New("track is not a template")

	// ErrMilestoneNotFound indicates that an operation targeted a milestone
	// id that does not exist on the given track. Wraps store.ErrNotFound so
	// store.IsNotFoundError covers it.
	ErrMilestoneNotFound = fmt.Errorf("%w: milestone", store.ErrNotFound)
)
