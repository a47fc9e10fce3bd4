package httpx

import (
	"errors"
	"net/http"
	"testing"

	apperrors "github.com/target/saarevents/internal/errors"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: apperrors.Validation("bad"), want: http.StatusBadRequest},
		{name: "malformed credential", err: apperrors.MalformedCredential(errors.New("x")), want: http.StatusBadRequest},
		{name: "unauthorized", err: apperrors.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "session invalid", err: apperrors.SessionInvalid(errors.New("401")), want: http.StatusUnauthorized},
		{name: "forbidden", err: apperrors.Forbidden("admins only"), want: http.StatusForbidden},
		{name: "not found", err: apperrors.NotFound("gone"), want: http.StatusNotFound},
		{name: "unavailable", err: &apperrors.AppError{Code: apperrors.ErrCodeUnavailable}, want: http.StatusBadGateway},
		{name: "timeout", err: &apperrors.AppError{Code: apperrors.ErrCodeTimeout}, want: http.StatusGatewayTimeout},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusForError(tt.err); got != tt.want {
				t.Fatalf("StatusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorCodeFor(t *testing.T) {
	if got := errorCodeFor(errors.New("boom"), "login_failed"); got != "login_failed" {
		t.Fatalf("expected fallback code, got %q", got)
	}
	if got := errorCodeFor(apperrors.ErrForbidden, "login_failed"); got != "forbidden" {
		t.Fatalf("expected app error code, got %q", got)
	}
}
