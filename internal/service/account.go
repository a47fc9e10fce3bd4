package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
)

// federatedStateTTL bounds how long a started federated login may take.
const federatedStateTTL = 10 * time.Minute

// ErrFederatedStateMismatch means a callback did not belong to any federated
// login started by this process, or arrived after it expired.
var ErrFederatedStateMismatch = errors.New("unknown or expired login state")

// SignIn exchanges credentials for a full identity, starts a session with it
// and loads the user's favorites.
func (s *Session) SignIn(ctx context.Context, in model.SignInInput) (domainauth.Identity, error) {
	if strings.TrimSpace(in.Username) == "" {
		return domainauth.Identity{}, apperrors.ValidationField("username", "username is required")
	}
	if in.Password == "" {
		return domainauth.Identity{}, apperrors.ValidationField("password", "password is required")
	}

	id, err := s.api.SignIn(ctx, in)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("sign in: %w", err)
	}
	if err := s.store.Login(ctx, id); err != nil {
		return domainauth.Identity{}, err
	}
	if id.IsPartial() {
		return s.sync.Refresh(ctx)
	}
	if err := s.favorites.Load(ctx, id.ID); err != nil {
		return domainauth.Identity{}, err
	}
	return id, nil
}

// Register creates an account. The caller signs in separately.
func (s *Session) Register(ctx context.Context, in model.SignUpInput) (model.MessageResponse, error) {
	if err := in.Validate(); err != nil {
		return model.MessageResponse{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid registration")
	}
	resp, err := s.api.SignUp(ctx, in)
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("sign up: %w", err)
	}
	return resp, nil
}

// ForgotPassword requests a reset link for email. An unknown address is
// reported as success so the answer does not reveal which accounts exist.
func (s *Session) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return apperrors.ValidationField("email", "a valid e-mail address is required")
	}
	if err := s.api.ForgotPassword(ctx, email); err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

// ResetPassword sets a new password with the token from a reset link. It
// does not sign the user in.
func (s *Session) ResetPassword(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.ValidationField("token", "reset token is required")
	}
	if err := (model.ResetPasswordInput{Password: password}).Validate(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid password")
	}
	if err := s.api.ResetPassword(ctx, token, password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// LoginWithCredential starts a session from a federated credential and
// immediately syncs the profile so the identity becomes full.
func (s *Session) LoginWithCredential(ctx context.Context, token string) (domainauth.Identity, error) {
	if _, err := s.store.LoginWithCredential(ctx, token); err != nil {
		return domainauth.Identity{}, err
	}
	return s.sync.Refresh(ctx)
}

// BeginFederatedLoginResult contains the result of beginning a federated login.
type BeginFederatedLoginResult struct {
	AuthURL string
	State   string
}

// BeginFederatedLogin builds the API's authorization URL for the configured
// provider. redirectURL receives the credential once the provider is done.
func (s *Session) BeginFederatedLogin(redirectURL string) (*BeginFederatedLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if s.cfg.APIBaseURL == "" || s.cfg.FederatedProvider == "" {
		return nil, apperrors.Internal("federated login is not configured")
	}
	base, err := url.Parse(s.cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}

	state := uuid.NewString()
	authURL := base.JoinPath("oauth2", "authorization", s.cfg.FederatedProvider)
	q := authURL.Query()
	q.Set("redirect_uri", redirectURL)
	q.Set("state", state)
	authURL.RawQuery = q.Encode()

	s.states.put(state, time.Now().Add(federatedStateTTL))
	return &BeginFederatedLoginResult{AuthURL: authURL.String(), State: state}, nil
}

// CompleteFederatedLoginInput groups parameters for completing a federated login.
type CompleteFederatedLoginInput struct {
	Token string
	State string
}

// CompleteFederatedLogin checks the state issued by BeginFederatedLogin,
// logs in with the returned credential and syncs the profile.
//
// The API redirect may carry only the token. Without a state the credential
// is accepted only while a started login is outstanding, and that login is
// used up. A state that is present must match exactly.
func (s *Session) CompleteFederatedLogin(ctx context.Context, in CompleteFederatedLoginInput) (domainauth.Identity, error) {
	if in.Token == "" {
		return domainauth.Identity{}, apperrors.ValidationField("token", "credential is required")
	}
	now := time.Now()
	var ok bool
	if in.State == "" {
		ok = s.states.consumeAny(now)
	} else {
		ok = s.states.consume(in.State, now)
	}
	if !ok {
		return domainauth.Identity{}, apperrors.Wrap(ErrFederatedStateMismatch, apperrors.ErrCodeValidation, "federated login rejected")
	}
	return s.LoginWithCredential(ctx, in.Token)
}

// stateTracker remembers outstanding federated login states. Each state is
// accepted once.
type stateTracker struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newStateTracker() *stateTracker {
	return &stateTracker{states: make(map[string]time.Time)}
}

func (t *stateTracker) put(state string, expires time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[state] = expires
}

func (t *stateTracker) consume(state string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireLocked(now)
	if _, ok := t.states[state]; !ok {
		return false
	}
	delete(t.states, state)
	return true
}

// consumeAny uses up the outstanding state closest to expiry.
func (t *stateTracker) consumeAny(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expireLocked(now)
	oldest := ""
	var oldestExp time.Time
	for k, exp := range t.states {
		if oldest == "" || exp.Before(oldestExp) {
			oldest, oldestExp = k, exp
		}
	}
	if oldest == "" {
		return false
	}
	delete(t.states, oldest)
	return true
}

func (t *stateTracker) expireLocked(now time.Time) {
	for k, exp := range t.states {
		if now.After(exp) {
			delete(t.states, k)
		}
	}
}
