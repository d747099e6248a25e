package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   ErrorType
		wantStatus int
	}{
		{
			name:       "app error passes through",
			err:        NewAuthorizationError("denied"),
			wantType:   ErrorTypeAuthorization,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrapped app error is unwrapped",
			err:        fmt.Errorf("while writing: %w", NewNotFoundError("member not found")),
			wantType:   ErrorTypeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "plain error becomes internal",
			err:        fmt.Errorf("connection refused"),
			wantType:   ErrorTypeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := As(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
		})
	}

	assert.Nil(t, As(nil))
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewValidationError("bad status", nil))
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeValidation))
}

func TestWriteHidesInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NewInternalError("An unexpected error occurred", fmt.Errorf("pq: relation does not exist")), "req-1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation does not exist")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorTypeInternal, body.Error.Type)
	assert.Equal(t, "req-1", body.Error.RequestID)
}
