package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/service"
	"github.com/target/saarevents/internal/testutil"
)

type completerFunc func(ctx context.Context, in service.CompleteFederatedLoginInput) (domainauth.Identity, error)

func (f completerFunc) CompleteFederatedLogin(
	ctx context.Context,
	in service.CompleteFederatedLoginInput,
) (domainauth.Identity, error) {
	return f(ctx, in)
}

func startTestCallbackServer(t *testing.T, svc completerFunc) *CallbackServer {
	t.Helper()
	srv, err := StartCallbackServer(CallbackServerConfig{
		Addr:    "127.0.0.1:0",
		Service: svc,
		Logger:  discardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func TestCallbackServer_DeliversIdentity(t *testing.T) {
	alice := testutil.NewIdentity().Build()
	srv := startTestCallbackServer(t, func(_ context.Context, in service.CompleteFederatedLoginInput) (domainauth.Identity, error) {
		if in.Token != "fed-token" || in.State != "s1" {
			return domainauth.Identity{}, apperrors.Validation("unexpected input")
		}
		return alice, nil
	})
	require.True(t, strings.HasSuffix(srv.RedirectURL(), "/auth/callback"))

	resp, err := http.Get(srv.RedirectURL() + "?token=fed-token&state=s1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "token")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := srv.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestCallbackServer_DeliversFailure(t *testing.T) {
	boom := apperrors.ErrUnauthorized
	srv := startTestCallbackServer(t, func(context.Context, service.CompleteFederatedLoginInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, boom
	})

	resp, err := http.Get(srv.RedirectURL() + "?token=t&state=s")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, err = srv.Wait(context.Background())
	assert.True(t, errors.Is(err, boom))
}

func TestCallbackServer_StrayCallbackKeepsWaiting(t *testing.T) {
	alice := testutil.NewIdentity().Build()
	srv := startTestCallbackServer(t, func(_ context.Context, in service.CompleteFederatedLoginInput) (domainauth.Identity, error) {
		if in.State == "forged" {
			return domainauth.Identity{}, apperrors.Wrap(service.ErrFederatedStateMismatch, apperrors.ErrCodeValidation, "rejected")
		}
		return alice, nil
	})

	resp, err := http.Get(srv.RedirectURL() + "?token=t&state=forged")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.RedirectURL() + "?token=fed-token")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := srv.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestCallbackServer_WaitHonoursContext(t *testing.T) {
	srv := startTestCallbackServer(t, func(context.Context, service.CompleteFederatedLoginInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := srv.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartCallbackServer_RequiresService(t *testing.T) {
	_, err := StartCallbackServer(CallbackServerConfig{})
	require.Error(t, err)
}
