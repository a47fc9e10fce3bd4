package service

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/observability/metrics"
	"github.com/target/saarevents/internal/observability/statsd"
	"github.com/target/saarevents/internal/ports"
)

// SessionAPI is the subset of the events API the session layer talks to.
type SessionAPI interface {
	ports.AuthAPI
	ports.ProfileAPI
	ports.FavoritesAPI
}

// SessionConfig holds behavioural settings for Session.
type SessionConfig struct {
	// RollbackOnFailure reverts an optimistic favorite change when the server rejects it.
	RollbackOnFailure bool
	// APIBaseURL is used to build federated authorization URLs.
	APIBaseURL string
	// FederatedProvider names the OAuth2 registration on the API (e.g. "google").
	FederatedProvider string
}

// SessionOptions groups dependencies for Session.
type SessionOptions struct {
	Store   ports.CredentialStore // Required: durable envelope storage
	API     SessionAPI            // Required: account, profile and favorites endpoints
	Decoder ports.TokenDecoder    // Optional: enables federated login
	Config  SessionConfig         // Optional: behaviour toggles
	Logger  *slog.Logger          // Optional: structured logger
	Metrics statsd.Sink           // Optional: lifecycle metrics
}

// Session wires the session store, profile synchronizer and favorites
// manager together and exposes the user intents built on them.
type Session struct {
	store     *SessionStore
	sync      *ProfileSynchronizer
	favorites *FavoritesManager

	api     SessionAPI
	cfg     SessionConfig
	logger  *slog.Logger
	metrics statsd.Sink
	states  *stateTracker
}

// NewSession constructs a Session and its components.
func NewSession(opts SessionOptions) *Session {
	if opts.API == nil {
		panic("SessionAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := NewSessionStore(SessionStoreOptions{
		Store:   opts.Store,
		Decoder: opts.Decoder,
		Logger:  logger,
		Metrics: opts.Metrics,
	})
	favs := NewFavoritesManager(FavoritesManagerOptions{
		Sessions: store,
		API:      opts.API,
		Logger:   logger,
		Metrics:  opts.Metrics,
	})
	syncer := NewProfileSynchronizer(ProfileSynchronizerOptions{
		Sessions:  store,
		Profiles:  opts.API,
		Favorites: favs,
		Logger:    logger,
		Metrics:   opts.Metrics,
	})
	return &Session{
		store:     store,
		sync:      syncer,
		favorites: favs,
		api:       opts.API,
		cfg:       opts.Config,
		logger:    logger.With("component", "session"),
		metrics:   opts.Metrics,
		states:    newStateTracker(),
	}
}

// Store exposes the underlying session store.
func (s *Session) Store() *SessionStore { return s.store }

// Favorites exposes the favorites manager.
func (s *Session) Favorites() *FavoritesManager { return s.favorites }

// Close releases subscriptions held by the session components.
func (s *Session) Close() {
	s.favorites.Close()
}

// Init restores the persisted session, then validates it against the server
// and loads favorites. Restore always completes before any network call.
// With nothing persisted it returns a zero identity and no error.
func (s *Session) Init(ctx context.Context) (domainauth.Identity, error) {
	if _, ok := s.store.Restore(ctx); !ok {
		return domainauth.Identity{}, nil
	}
	return s.sync.Refresh(ctx)
}

// Current returns the current identity and whether one is present.
func (s *Session) Current() (domainauth.Identity, bool) {
	return s.store.Current()
}

// Refresh re-validates the held credential. See ProfileSynchronizer.Refresh.
func (s *Session) Refresh(ctx context.Context) (domainauth.Identity, error) {
	return s.sync.Refresh(ctx)
}

// Logout ends the session locally. No server call is made.
func (s *Session) Logout(ctx context.Context) error {
	return s.store.Logout(ctx)
}

// AddFavorite marks eventID locally and then on the server.
func (s *Session) AddFavorite(ctx context.Context, eventID int64) error {
	return s.mutateFavorite(ctx, eventID, true)
}

// RemoveFavorite unmarks eventID locally and then on the server.
func (s *Session) RemoveFavorite(ctx context.Context, eventID int64) error {
	return s.mutateFavorite(ctx, eventID, false)
}

// ToggleFavorite flips the favorite state of eventID and reports the new state.
func (s *Session) ToggleFavorite(ctx context.Context, eventID int64) (bool, error) {
	add := !s.favorites.Contains(eventID)
	if err := s.mutateFavorite(ctx, eventID, add); err != nil {
		return s.favorites.Contains(eventID), err
	}
	return add, nil
}

func (s *Session) mutateFavorite(ctx context.Context, eventID int64, add bool) error {
	op := metrics.OpFavoriteRemove
	if add {
		op = metrics.OpFavoriteAdd
	}
	start := time.Now()

	snap := s.store.Snapshot()
	if !snap.Present {
		return apperrors.ErrUnauthorized
	}
	changed, epoch, err := s.favorites.apply(eventID, add)
	if err != nil {
		return err
	}
	if changed && s.store.Generation() != snap.Generation {
		s.favorites.revert(eventID, add, epoch)
		return ErrSessionChanged
	}
	if !changed {
		metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: op, Result: metrics.ResultNoop})
		return nil
	}

	if add {
		err = s.api.AddFavorite(ctx, snap.Identity.ID, eventID)
	} else {
		err = s.api.RemoveFavorite(ctx, snap.Identity.ID, eventID)
	}
	metrics.EmitSession(s.metrics, metrics.SessionMetric{Op: op, Duration: time.Since(start), Err: err})
	if err != nil {
		s.logger.WarnContext(ctx, "favorite change rejected",
			"event_id", eventID, "add", add, "rollback", s.cfg.RollbackOnFailure, "error", err)
		if s.cfg.RollbackOnFailure {
			s.favorites.revert(eventID, add, epoch)
		}
		return err
	}
	return nil
}

// FavoriteEvents fetches the full favorite events of the signed-in user for
// display. It does not modify the local set.
func (s *Session) FavoriteEvents(ctx context.Context) ([]model.Event, error) {
	id, ok := s.store.Current()
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	if id.IsPartial() {
		return nil, apperrors.NotReady("profile has not been synced yet")
	}
	return s.api.ListFavorites(ctx, id.ID)
}
