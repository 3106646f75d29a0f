package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("locate: %w", NotFound("no check-in for user 7"))

	assert.ErrorIs(t, err, KindNotFound)
	assert.NotErrorIs(t, err, KindInvalidParameter)

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)
	assert.Equal(t, http.StatusNotFound, e.Status())
	assert.Equal(t, "Not Found: no check-in for user 7", e.Error())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		kind   Kind
		status int
	}{
		{"invalid parameter", InvalidParameter("already checked in", "userId"), KindInvalidParameter, http.StatusBadRequest},
		{"unprocessable", UnprocessableRequest("token is expired"), KindUnprocessableRequest, http.StatusUnprocessableEntity},
		{"unauthorized", Unauthorized("missing bearer token"), KindUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("role not allowed"), KindForbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.Status())
			assert.True(t, errors.Is(tt.err, tt.kind))
		})
	}
	assert.Equal(t, "userId", InvalidParameter("x", "userId").Source)
}

func TestAsPlainError(t *testing.T) {
	_, ok := As(errors.New("driver: bad connection"))
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, Kind("other").Status())
}
