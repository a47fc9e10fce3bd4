package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/observability/metrics"
	"github.com/target/saarevents/internal/observability/statsd"
	"github.com/target/saarevents/internal/ports"
)

// SessionEventKind says what changed in the session.
type SessionEventKind int

const (
	// SessionLogin is a new identity from any login path.
	SessionLogin SessionEventKind = iota + 1
	// SessionRestore is an identity loaded from durable storage at startup.
	SessionRestore
	// SessionRefresh is a partial or stale identity replaced by the profile endpoint.
	SessionRefresh
	// SessionLogout is the identity being discarded.
	SessionLogout
)

func (k SessionEventKind) String() string {
	switch k {
	case SessionLogin:
		return "login"
	case SessionRestore:
		return "restore"
	case SessionRefresh:
		return "refresh"
	case SessionLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// SessionEvent is delivered to subscribers after every identity change.
type SessionEvent struct {
	Kind       SessionEventKind
	Identity   domainauth.Identity
	Generation uint64
}

// SessionSnapshot is a consistent view of the current session.
type SessionSnapshot struct {
	Identity   domainauth.Identity
	Present    bool
	Generation uint64
}

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Store   ports.CredentialStore // Required: durable envelope storage
	Decoder ports.TokenDecoder    // Optional: required only for LoginWithCredential
	Logger  *slog.Logger          // Optional: structured logger
	Metrics statsd.Sink           // Optional: lifecycle metrics
}

// SessionStore holds the current identity and mirrors it to durable storage.
//
// Every identity change that starts or ends a session bumps a generation
// counter. Work that spans a network call captures the generation first and
// applies its result only if the generation is unchanged.
type SessionStore struct {
	store   ports.CredentialStore
	decoder ports.TokenDecoder
	logger  *slog.Logger
	metrics statsd.Sink

	// writeMu serializes storage writes with the in-memory swap that follows them.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current domainauth.Identity
	present bool
	gen     uint64

	subMu   sync.Mutex
	subs    map[int]func(SessionEvent)
	nextSub int
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	if opts.Store == nil {
		panic("CredentialStore is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		store:   opts.Store,
		decoder: opts.Decoder,
		logger:  logger.With("component", "session_store"),
		metrics: opts.Metrics,
		subs:    make(map[int]func(SessionEvent)),
	}
}

// Restore loads the persisted envelope into memory. It never fails: missing,
// unreadable or malformed data all yield an absent session. No network I/O.
func (s *SessionStore) Restore(ctx context.Context) (domainauth.Identity, bool) {
	start := time.Now()

	s.writeMu.Lock()
	id, ok := s.loadEnvelope(ctx)

	s.mu.Lock()
	hadPrevious := s.present
	if ok {
		s.current = id.Clone()
		s.present = true
		s.gen++
	} else {
		s.current = domainauth.Identity{}
		s.present = false
		if hadPrevious {
			s.gen++
		}
	}
	gen := s.gen
	s.mu.Unlock()
	s.writeMu.Unlock()

	switch {
	case ok:
		s.logger.InfoContext(ctx, "session restored", "username", id.Username, "partial", id.IsPartial())
		s.notify(SessionEvent{Kind: SessionRestore, Identity: id.Clone(), Generation: gen})
		metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: metrics.OpRestore, Duration: time.Since(start)})
	case hadPrevious:
		s.notify(SessionEvent{Kind: SessionLogout, Generation: gen})
		metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: metrics.OpRestore, Result: metrics.ResultNoop})
	default:
		metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: metrics.OpRestore, Result: metrics.ResultNoop})
	}
	return id, ok
}

func (s *SessionStore) loadEnvelope(ctx context.Context) (domainauth.Identity, bool) {
	data, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "session storage unreadable; starting signed out", "error", err)
		return domainauth.Identity{}, false
	}
	if len(data) == 0 {
		return domainauth.Identity{}, false
	}
	id, err := decodeEnvelope(data)
	if err != nil {
		s.logger.WarnContext(ctx, "stored session is malformed; starting signed out", "error", err)
		return domainauth.Identity{}, false
	}
	return id, true
}

// Login persists identity (overwriting any previous envelope) and makes it
// current. A persistence failure leaves the session unchanged.
func (s *SessionStore) Login(ctx context.Context, identity domainauth.Identity) error {
	err := s.login(ctx, identity, SessionLogin)
	metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: metrics.OpLogin, Err: err})
	return err
}

func (s *SessionStore) login(ctx context.Context, identity domainauth.Identity, kind SessionEventKind) error {
	if !identity.Valid() {
		return apperrors.Validation("identity requires a username and a credential")
	}
	identity = identity.Clone()
	if identity.Roles == nil {
		identity.Roles = []domainauth.Role{}
	}
	data, err := encodeEnvelope(identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.writeMu.Lock()
	if err := s.store.Save(ctx, data); err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.mu.Lock()
	s.current = identity
	s.present = true
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.logger.InfoContext(ctx, "session started", "username", identity.Username, "partial", identity.IsPartial())
	s.notify(SessionEvent{Kind: kind, Identity: identity.Clone(), Generation: gen})
	return nil
}

// LoginWithCredential decodes a federated credential locally and logs in the
// resulting partial identity: id 0, empty email, empty roles.
func (s *SessionStore) LoginWithCredential(ctx context.Context, token string) (domainauth.Identity, error) {
	id, err := s.loginWithCredential(ctx, token)
	metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: metrics.OpLoginFederated, Err: err})
	return id, err
}

func (s *SessionStore) loginWithCredential(ctx context.Context, token string) (domainauth.Identity, error) {
	if s.decoder == nil {
		return domainauth.Identity{}, apperrors.Internal("no token decoder configured")
	}
	claims, err := s.decoder.Decode(ctx, token)
	if err != nil {
		s.logger.WarnContext(ctx, "federated credential rejected", "error", err)
		return domainauth.Identity{}, apperrors.MalformedCredential(err)
	}
	id := domainauth.PartialIdentity(token, claims)
	if !id.Valid() {
		return domainauth.Identity{}, apperrors.MalformedCredential(errors.New("credential has no usable subject"))
	}
	if err := s.login(ctx, id, SessionLogin); err != nil {
		return domainauth.Identity{}, err
	}
	return id, nil
}

// Logout erases the persisted envelope and clears the current identity.
// Memory is cleared even when storage fails; the storage error is returned.
func (s *SessionStore) Logout(ctx context.Context) error {
	_, err := s.logout(ctx, nil)
	return err
}

// logoutIf logs out only when the session generation still equals gen.
// It reports whether a logout happened.
func (s *SessionStore) logoutIf(ctx context.Context, gen uint64) (bool, error) {
	return s.logout(ctx, &gen)
}

func (s *SessionStore) logout(ctx context.Context, onlyGen *uint64) (bool, error) {
	s.writeMu.Lock()
	if onlyGen != nil && s.Generation() != *onlyGen {
		s.writeMu.Unlock()
		return false, nil
	}
	clearErr := s.store.Clear(ctx)

	s.mu.Lock()
	had := s.present
	username := s.current.Username
	s.current = domainauth.Identity{}
	s.present = false
	if had {
		s.gen++
	}
	gen := s.gen
	s.mu.Unlock()
	s.writeMu.Unlock()

	if had {
		s.logger.InfoContext(ctx, "session ended", "username", username)
		s.notify(SessionEvent{Kind: SessionLogout, Generation: gen})
	}
	result := metrics.ResultSuccess
	if !had && clearErr == nil {
		result = metrics.ResultNoop
	}
	if clearErr != nil {
		result = metrics.ResultError
		clearErr = fmt.Errorf("clear session storage: %w", clearErr)
	}
	metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: metrics.OpLogout, Result: result, Err: clearErr})
	return had, clearErr
}

// replaceIfCurrent swaps in a refreshed identity when the session is still
// the one identified by gen and token. The generation is not bumped: a
// refresh continues the same session.
func (s *SessionStore) replaceIfCurrent(ctx context.Context, gen uint64, token string, id domainauth.Identity) error {
	data, err := encodeEnvelope(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.writeMu.Lock()
	snap := s.Snapshot()
	if !snap.Present || snap.Generation != gen || snap.Identity.Token != token {
		s.writeMu.Unlock()
		return ErrSessionChanged
	}
	if err := s.store.Save(ctx, data); err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.mu.Lock()
	s.current = id.Clone()
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.notify(SessionEvent{Kind: SessionRefresh, Identity: id.Clone(), Generation: gen})
	return nil
}

// Current returns the current identity and whether one is present.
func (s *SessionStore) Current() (domainauth.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone(), s.present
}

// Snapshot returns identity, presence and generation read atomically.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{Identity: s.current.Clone(), Present: s.present, Generation: s.gen}
}

// Generation returns the current session generation.
func (s *SessionStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Token returns the bearer credential of the current session, or "".
// It satisfies ports.TokenSource.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return ""
	}
	return s.current.Token
}

// Subscribe registers fn for session events. Callbacks run synchronously on
// the goroutine that changed the session, after its locks are released.
func (s *SessionStore) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *SessionStore) notify(ev SessionEvent) {
	s.subMu.Lock()
	fns := make([]func(SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
