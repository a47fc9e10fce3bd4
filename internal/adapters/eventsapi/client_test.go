package eventsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/ports"
)

var (
	_ ports.AuthAPI      = (*Client)(nil)
	_ ports.ProfileAPI   = (*Client)(nil)
	_ ports.FavoritesAPI = (*Client)(nil)
	_ ports.CatalogAPI   = (*Client)(nil)
	_ ports.AdminAPI     = (*Client)(nil)
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.Handler, tokens ports.TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second, RetryLimit: 2, Tokens: tokens})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)
}

func TestSignIn_PostsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "sign-in must not carry a bearer token")
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))
		var in model.SignInInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "alice", in.Username)
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 42, "username": "alice", "email": "a@x.com",
			"roles": []string{"ROLE_USER"}, "token": "tok", "type": "Bearer",
		})
	})
	c := newTestClient(t, mux, staticTokens("other"))

	id, err := c.SignIn(context.Background(), model.SignInInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.ID)
	assert.Equal(t, "tok", id.Token)
	assert.True(t, id.HasRole(domainauth.RoleUser))
}

func TestSignIn_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signin", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})
	c := newTestClient(t, mux, nil)

	_, err := c.SignIn(context.Background(), model.SignInInput{Username: "alice", Password: "bad"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Bad credentials", err.(*apperrors.AppError).Message)

	_, err = c.SignIn(context.Background(), model.SignInInput{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSignUp_Conflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Error: Username is already taken!"})
	})
	c := newTestClient(t, mux, nil)

	_, err := c.SignUp(context.Background(), model.SignUpInput{Username: "a", Email: "a@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "already taken")
}

func TestFetchProfile_UsesGivenToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer captured", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, domainauth.Profile{ID: 7, Username: "bob", Roles: []domainauth.Role{domainauth.RoleAdmin}})
	})
	c := newTestClient(t, mux, staticTokens("current"))

	p, err := c.FetchProfile(context.Background(), "captured")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)

	_, err = c.FetchProfile(context.Background(), "")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestFetchProfile_IsNotRetried(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestClient(t, mux, nil)

	_, err := c.FetchProfile(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err))
	assert.Equal(t, int32(1), hits.Load(), "profile fetch must be a single request")
}

func TestFavorites_BearerFromSession(t *testing.T) {
	var adds, removes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/favorites/42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []model.Event{{ID: 1}, {ID: 3}})
	})
	mux.HandleFunc("POST /api/favorites/42/5", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		adds.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("DELETE /api/favorites/42/5", func(w http.ResponseWriter, _ *http.Request) {
		removes.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux, staticTokens("tok"))
	ctx := context.Background()

	events, err := c.ListFavorites(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, model.EventIDs(events))
	require.NoError(t, c.AddFavorite(ctx, 42, 5))
	require.NoError(t, c.RemoveFavorite(ctx, 42, 5))
	assert.Equal(t, int32(1), adds.Load())
	assert.Equal(t, int32(1), removes.Load())
}

func TestAuthedCall_WithoutCredentialFailsLocally(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}), staticTokens(""))

	err := c.AddFavorite(context.Background(), 1, 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Zero(t, hits.Load())
}

func TestGet_RetriesOnServerError(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, []model.Category{{ID: 1, Name: "Music"}})
	})
	c := newTestClient(t, mux, nil)

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, int32(3), hits.Load())
}

func TestPost_IsNotRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}), staticTokens("tok"))

	err := c.AddFavorite(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestListEvents_EncodesFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Music", r.URL.Query().Get("categoryName"))
		assert.Equal(t, "Saarlouis", r.URL.Query().Get("city"))
		writeJSON(w, http.StatusOK, []model.Event{{ID: 9}})
	})
	c := newTestClient(t, mux, nil)

	events, err := c.ListEvents(context.Background(), model.EventFilter{CategoryName: "Music", City: "Saarlouis"})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestUpdateEventStatus_Body(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/admin/events/3/status", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"APPROVED"}`, string(body))
		writeJSON(w, http.StatusOK, model.Event{ID: 3, Status: model.EventStatusApproved})
	})
	c := newTestClient(t, mux, staticTokens("tok"))

	ev, err := c.UpdateEventStatus(context.Background(), 3, model.EventStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusApproved, ev.Status)
}

func TestAdmin_ReferenceData(t *testing.T) {
	var deletes []string
	var mu sync.Mutex
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/categories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var in model.CategoryInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusOK, model.Category{ID: 5, Name: in.Name})
	})
	mux.HandleFunc("POST /api/admin/cities", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Homburg","latitude":null,"longitude":null}`, string(body))
		writeJSON(w, http.StatusOK, model.City{ID: 6, Name: "Homburg"})
	})
	mux.HandleFunc("DELETE /api/admin/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		deletes = append(deletes, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux, staticTokens("tok"))
	ctx := context.Background()

	cat, err := c.CreateCategory(ctx, model.CategoryInput{Name: "Music"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), cat.ID)
	city, err := c.CreateCity(ctx, model.CityInput{Name: "Homburg"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), city.ID)

	require.NoError(t, c.DeleteCategory(ctx, 5))
	require.NoError(t, c.DeleteCity(ctx, 6))
	require.NoError(t, c.DeleteUser(ctx, 7))
	require.NoError(t, c.DeleteEvent(ctx, 8))
	assert.Equal(t, []string{
		"/api/admin/categories/5",
		"/api/admin/cities/6",
		"/api/admin/users/7",
		"/api/admin/events/8",
	}, deletes)
}

func TestAdmin_Events(t *testing.T) {
	in := model.CreateEventInput{
		EventDate:    "2025-07-01T19:00:00",
		CategoryID:   1,
		CityID:       2,
		Translations: []model.Translation{{Locale: "de", Name: "Sommerfest"}},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/events", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []model.Event{{ID: 1, Status: model.EventStatusPending}, {ID: 2}})
	})
	mux.HandleFunc("POST /api/admin/events", func(w http.ResponseWriter, r *http.Request) {
		var got model.CreateEventInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, in, got)
		writeJSON(w, http.StatusOK, model.Event{ID: 3, Status: model.EventStatusApproved})
	})
	mux.HandleFunc("PUT /api/admin/events/3", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, model.Event{ID: 3})
	})
	c := newTestClient(t, mux, staticTokens("tok"))
	ctx := context.Background()

	all, err := c.ListAllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	created, err := c.CreateEvent(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	updated, err := c.UpdateEvent(ctx, 3, in)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.ID)
}

func TestPasswordReset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@x.com"}`, string(body))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "reset-tok", r.URL.Query().Get("token"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"password":"secret1"}`, string(body))
		writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Password has been reset"})
	})
	c := newTestClient(t, mux, staticTokens("tok"))

	require.NoError(t, c.ForgotPassword(context.Background(), "a@x.com"))
	require.NoError(t, c.ResetPassword(context.Background(), "reset-tok", "secret1"))
}

func TestNotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), nil)
	_, err := c.GetEvent(context.Background(), 404)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListCities(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
}
