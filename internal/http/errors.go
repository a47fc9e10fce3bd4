package httpx

import (
	"net/http"

	apperrors "github.com/target/saarevents/internal/errors"
)

// StatusForError maps an application error onto the HTTP status the callback answers with.
func StatusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeMalformedCredential:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeSessionInvalid:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeNotReady:
		return http.StatusConflict
	case apperrors.ErrCodeUnavailable:
		return http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorCodeFor returns the machine readable code for the JSON error body.
func errorCodeFor(err error, fallback string) string {
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return fallback
}
