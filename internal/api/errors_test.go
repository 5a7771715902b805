package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notumhq/notum/internal/bus"
	"github.com/notumhq/notum/internal/service"
	"github.com/notumhq/notum/internal/service/export"
	"github.com/notumhq/notum/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "resource not found", err: store.ErrResourceNotFound, expected: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", store.ErrTrackNotFound), expected: http.StatusNotFound},
		{name: "milestone not found", err: service.ErrMilestoneNotFound, expected: http.StatusNotFound},
		{name: "duplicate url", err: store.ErrURLExists, expected: http.StatusConflict},
		{name: "duplicate fingerprint", err: store.ErrFingerprintExists, expected: http.StatusConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, expected: http.StatusBadRequest},
		{name: "not a template", err: service.ErrNotATemplate, expected: http.StatusBadRequest},
		{name: "invalid bundle", err: export.ErrInvalidBundle, expected: http.StatusBadRequest},
		{name: "unsupported file", err: export.ErrUnsupportedFile, expected: http.StatusBadRequest},
		{name: "worker timeout", err: bus.ErrTimeout, expected: http.StatusGatewayTimeout},
		{name: "store not open", err: store.ErrNotOpen, expected: http.StatusServiceUnavailable},
		{name: "anything else", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Resource not found", GetSafeErrorMessage(store.ErrResourceNotFound))
	assert.Equal(t, "Milestone not found", GetSafeErrorMessage(service.ErrMilestoneNotFound))
	assert.Equal(t, "Track is not a template", GetSafeErrorMessage(service.ErrNotATemplate))

	// Internal details never leak through.
	internal := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
