package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/notumhq/notum/internal/bus"
	"github.com/notumhq/notum/internal/service"
	"github.com/notumhq/notum/internal/service/export"
	"github.com/notumhq/notum/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors (entity-specific ones wrap store.ErrNotFound)
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrNotATemplate),
		errors.Is(err, export.ErrInvalidBundle),
		errors.Is(err, export.ErrUnsupportedFile):
		return http.StatusBadRequest

	// Worker delegation exceeded its deadline
	case errors.Is(err, bus.ErrTimeout):
		return http.StatusGatewayTimeout

	// Store not available
	case errors.Is(err, store.ErrNotOpen):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrResourceNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrHighlightNotFound):
		return "Highlight not found"

	case errors.Is(err, store.ErrTrackNotFound):
		return "Track not found"

	case errors.Is(err, service.ErrMilestoneNotFound):
		return "Milestone not found"

	case errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case store.IsDuplicateError(err):
		return "A matching record already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrNotATemplate):
		return "Track is not a template"

	case errors.Is(err, export.ErrInvalidBundle):
		return "Invalid export bundle"

	case errors.Is(err, export.ErrUnsupportedFile):
		return "Unsupported import file type"

	case errors.Is(err, bus.ErrTimeout):
		return "Request timed out"

	case errors.Is(err, store.ErrNotOpen):
		return "Store is not available"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'CreateResourceRequest.URL' Error:Field
	// validation for 'URL' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "url":
		return "invalid URL format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
