package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// APIError carries the status and body of a non-2xx API response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), body)
}

// FromHTTPStatus maps an API response status to an AppError code.
func FromHTTPStatus(apiErr *APIError) *AppError {
	if apiErr == nil {
		return nil
	}
	msg := serverMessage(apiErr.Body)
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		return &AppError{Code: ErrCodeUnauthorized, Message: fallback(msg, "credentials rejected"), Cause: apiErr}
	case apiErr.StatusCode == http.StatusForbidden:
		return &AppError{Code: ErrCodeForbidden, Message: fallback(msg, "access denied"), Cause: apiErr}
	case apiErr.StatusCode == http.StatusNotFound:
		return &AppError{Code: ErrCodeNotFound, Message: fallback(msg, "resource not found"), Cause: apiErr}
	case apiErr.StatusCode == http.StatusConflict:
		return &AppError{Code: ErrCodeConflict, Message: fallback(msg, "conflict"), Cause: apiErr}
	case apiErr.StatusCode == http.StatusRequestTimeout || apiErr.StatusCode == http.StatusGatewayTimeout:
		return &AppError{Code: ErrCodeTimeout, Message: "request timed out", Cause: apiErr}
	case apiErr.StatusCode >= 500:
		return &AppError{Code: ErrCodeUnavailable, Message: "events API unavailable", Cause: apiErr}
	case apiErr.StatusCode >= 400:
		return &AppError{Code: ErrCodeValidation, Message: fallback(msg, "request rejected"), Cause: apiErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "unexpected response", Cause: apiErr}
	}
}

// MapTransportError maps errors returned by http.Client.Do to AppError instances.
// Context errors take precedence so callers can tell cancellation from outages.
func MapTransportError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "request was canceled", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &AppError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	}
	return &AppError{Code: ErrCodeUnavailable, Message: "events API unreachable", Cause: err}
}

// IsRetryable reports whether a failed request may be retried without side effects.
func IsRetryable(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnavailable, ErrCodeTimeout:
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	default:
		return false
	}
}

// serverMessage extracts a human-readable message from an error body.
func serverMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	if !strings.HasPrefix(body, "{") {
		if len(body) > 200 {
			return ""
		}
		return body
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return fallback(payload.Message, payload.Error)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
