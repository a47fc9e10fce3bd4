package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/service"
)

// FederatedLoginCompleter finishes a federated sign-in from the redirect parameters.
type FederatedLoginCompleter interface {
	CompleteFederatedLogin(ctx context.Context, in service.CompleteFederatedLoginInput) (domainauth.Identity, error)
}

// CallbackResult is delivered once, for the first callback that belongs to the
// login in progress.
type CallbackResult struct {
	Identity domainauth.Identity
	Err      error
}

// callbackResponse is the JSON body shown in the browser after a successful sign-in.
type callbackResponse struct {
	Status   string            `json:"status"`
	Username string            `json:"username"`
	Email    string            `json:"email,omitempty"`
	Roles    []domainauth.Role `json:"roles,omitempty"`
}

// AuthHandlers provides the HTTP handler for the federated sign-in redirect.
type AuthHandlers struct {
	Svc    FederatedLoginCompleter
	Logger *slog.Logger

	// OnResult is called at most once: with the provider's error, or with the
	// outcome of the first callback whose state matched a started login.
	// Malformed or stray callbacks are answered but not delivered.
	OnResult func(CallbackResult)

	once sync.Once
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) deliver(res CallbackResult) {
	h.once.Do(func() {
		if h.OnResult != nil {
			h.OnResult(res)
		}
	})
}

// Callback handles the federated redirect.
// GET /auth/callback?token=<credential>[&state=<state>].
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		err := errors.New("identity provider returned " + reason)
		h.logger().WarnContext(r.Context(), "federated sign-in rejected by provider", "reason", reason)
		h.deliver(CallbackResult{Err: err})
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "provider_error", Err: err})
		return
	}

	token := q.Get("token")
	if token == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_token",
			Err:     errors.New("token parameter is required"),
		})
		return
	}

	id, err := h.Svc.CompleteFederatedLogin(r.Context(), service.CompleteFederatedLoginInput{
		Token: token,
		State: q.Get("state"),
	})
	if err != nil {
		if errors.Is(err, service.ErrFederatedStateMismatch) {
			h.logger().WarnContext(r.Context(), "ignoring callback for unknown login")
		} else {
			h.logger().WarnContext(r.Context(), "federated sign-in failed", "error", err)
			h.deliver(CallbackResult{Err: err})
		}
		WriteError(w, ErrorParams{
			Code:    StatusForError(err),
			ErrCode: errorCodeFor(err, "login_failed"),
			Err:     err,
		})
		return
	}

	h.logger().InfoContext(r.Context(), "federated sign-in completed", "username", id.Username)
	h.deliver(CallbackResult{Identity: id})
	WriteJSON(w, http.StatusOK, callbackResponse{
		Status:   "signed_in",
		Username: id.Username,
		Email:    id.Email,
		Roles:    id.Roles,
	})
}
