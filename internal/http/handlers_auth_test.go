package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/saarevents/internal/domain/auth"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/service"
)

// mockCompleter is a test double for FederatedLoginCompleter.
type mockCompleter struct {
	calls    int
	last     service.CompleteFederatedLoginInput
	identity domainauth.Identity
	err      error
}

func (m *mockCompleter) CompleteFederatedLogin(
	_ context.Context,
	in service.CompleteFederatedLoginInput,
) (domainauth.Identity, error) {
	m.calls++
	m.last = in
	return m.identity, m.err
}

func newTestHandlers(svc FederatedLoginCompleter) (*AuthHandlers, *[]CallbackResult) {
	var results []CallbackResult
	h := &AuthHandlers{
		Svc:      svc,
		OnResult: func(r CallbackResult) { results = append(results, r) },
	}
	return h, &results
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	svc := &mockCompleter{identity: domainauth.Identity{
		ID:       42,
		Username: "alice",
		Email:    "a@x.com",
		Roles:    []domainauth.Role{domainauth.RoleUser},
		Token:    "secret-token",
	}}
	h, results := newTestHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?token=fed-token&state=abc", nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.CompleteFederatedLoginInput{Token: "fed-token", State: "abc"}, svc.last)

	body := decodeBody(t, rec)
	assert.Equal(t, "signed_in", body["status"])
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, rec.Body.String(), "secret-token")

	require.Len(t, *results, 1)
	assert.Equal(t, "alice", (*results)[0].Identity.Username)
	assert.NoError(t, (*results)[0].Err)
}

func TestAuthHandlers_Callback_TokenOnly(t *testing.T) {
	svc := &mockCompleter{identity: domainauth.Identity{ID: 42, Username: "alice"}}
	h, results := newTestHandlers(svc)

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=fed-token", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.CompleteFederatedLoginInput{Token: "fed-token"}, svc.last)
	require.Len(t, *results, 1)
	assert.Equal(t, "alice", (*results)[0].Identity.Username)
}

func TestAuthHandlers_Callback_MissingToken(t *testing.T) {
	svc := &mockCompleter{}
	h, results := newTestHandlers(svc)

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?state=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_token", decodeBody(t, rec)["error"])
	assert.Zero(t, svc.calls)
	assert.Empty(t, *results, "malformed requests do not end the wait")
}

func TestAuthHandlers_Callback_UnknownStateIsNotDelivered(t *testing.T) {
	svc := &mockCompleter{err: apperrors.Wrap(service.ErrFederatedStateMismatch, apperrors.ErrCodeValidation, "federated login rejected")}
	h, results := newTestHandlers(svc)

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=t&state=forged", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeBody(t, rec)["error"])
	assert.Empty(t, *results, "a stray callback must not abort the login in progress")

	svc.err = nil
	svc.identity = domainauth.Identity{ID: 42, Username: "alice"}
	rec = httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=t&state=real", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *results, 1)
	assert.Equal(t, "alice", (*results)[0].Identity.Username)
}

func TestAuthHandlers_Callback_ServiceError(t *testing.T) {
	svc := &mockCompleter{err: apperrors.SessionInvalid(errors.New("profile unavailable"))}
	h, results := newTestHandlers(svc)

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=t&state=s", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Len(t, *results, 1)
	assert.True(t, apperrors.IsSessionInvalid((*results)[0].Err))
}

func TestAuthHandlers_Callback_ProviderError(t *testing.T) {
	svc := &mockCompleter{}
	h, results := newTestHandlers(svc)

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?error=access_denied", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "provider_error", decodeBody(t, rec)["error"])
	assert.Zero(t, svc.calls)
	require.Len(t, *results, 1)
	assert.ErrorContains(t, (*results)[0].Err, "access_denied")
}

func TestAuthHandlers_Callback_ResultDeliveredOnce(t *testing.T) {
	svc := &mockCompleter{identity: domainauth.Identity{ID: 1, Username: "alice"}}
	h, results := newTestHandlers(svc)

	for range 2 {
		rec := httptest.NewRecorder()
		h.Callback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?token=t&state=s", nil))
	}

	assert.Equal(t, 2, svc.calls)
	assert.Len(t, *results, 1)
}
