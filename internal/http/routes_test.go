package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/saarevents/internal/domain/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRouter_Routes(t *testing.T) {
	svc := &mockCompleter{identity: domainauth.Identity{ID: 1, Username: "alice"}}
	router := NewRouter(&AuthHandlers{Svc: svc}, testLogger())

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{name: "health get", method: http.MethodGet, target: "/healthz", status: http.StatusOK},
		{name: "health head", method: http.MethodHead, target: "/healthz", status: http.StatusOK},
		{name: "callback", method: http.MethodGet, target: "/auth/callback?token=t&state=s", status: http.StatusOK},
		{name: "callback post", method: http.MethodPost, target: "/auth/callback", status: http.StatusMethodNotAllowed},
		{name: "unknown", method: http.MethodGet, target: "/nope", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestNewRouter_WithoutCallback(t *testing.T) {
	router := NewRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(testLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
