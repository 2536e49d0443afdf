package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"keyed-api/internal/backup"
	"keyed-api/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"unauthenticated", service.ErrUnauthenticated, http.StatusForbidden, "No api token"},
		{"invalid credential", fmt.Errorf("validate: %w", service.ErrInvalidCredential), http.StatusForbidden, "Invalid api token or not active"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "Not allowed"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "Not found"},
		{"invalid input", service.InvalidInput("invalid id"), http.StatusBadRequest, "invalid id"},
		{"constraint", fmt.Errorf("%w: username is required", service.ErrConstraintViolation), http.StatusInternalServerError, "Internal server error"},
		{"backup", backup.ErrNotConfigured, http.StatusInternalServerError, "backup storage not configured"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}
