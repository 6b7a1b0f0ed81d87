package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindExpired, http.StatusGone},
		{KindStorage, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Status(New(tt.kind, "x")))
	}

	// Untagged errors are storage failures.
	require.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestMessageHidesInternalDetail(t *testing.T) {
	wrapped := Wrap(KindStorage, "failed to create invite", errors.New("pq: connection reset"))
	require.Equal(t, "failed to create invite", Message(wrapped))
	require.Contains(t, wrapped.Error(), "connection reset")

	require.Equal(t, "internal server error", Message(errors.New("pq: secret detail")))
}

func TestUnwrapAndIsKind(t *testing.T) {
	cause := errors.New("unique constraint")
	err := Wrap(KindConflict, "already invited", cause)

	require.ErrorIs(t, err, cause)
	require.True(t, IsKind(err, KindConflict))
	require.False(t, IsKind(err, KindNotFound))

	// Kind survives further wrapping.
	outer := fmt.Errorf("handler: %w", err)
	require.True(t, IsKind(outer, KindConflict))
	require.Equal(t, http.StatusConflict, Status(outer))
}
