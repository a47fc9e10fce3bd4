package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/observability/metrics"
	"github.com/target/saarevents/internal/observability/statsd"
	"github.com/target/saarevents/internal/ports"
)

// ErrSessionChanged is returned when the session was replaced or ended while
// a request for it was in flight. The result of that request was discarded.
var ErrSessionChanged = errors.New("session changed while request was in flight")

// ProfileSynchronizerOptions groups dependencies for ProfileSynchronizer.
type ProfileSynchronizerOptions struct {
	Sessions  *SessionStore     // Required: session to refresh
	Profiles  ports.ProfileAPI  // Required: profile endpoint
	Favorites *FavoritesManager // Optional: loaded after a successful refresh
	Logger    *slog.Logger      // Optional: structured logger
	Metrics   statsd.Sink       // Optional: lifecycle metrics
}

// ProfileSynchronizer replaces the current identity with the authoritative
// profile from the server. Failure to validate the credential ends the session.
type ProfileSynchronizer struct {
	sessions  *SessionStore
	profiles  ports.ProfileAPI
	favorites *FavoritesManager
	logger    *slog.Logger
	metrics   statsd.Sink

	group singleflight.Group
}

// NewProfileSynchronizer constructs a ProfileSynchronizer.
func NewProfileSynchronizer(opts ProfileSynchronizerOptions) *ProfileSynchronizer {
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.Profiles == nil {
		panic("ProfileAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileSynchronizer{
		sessions:  opts.Sessions,
		profiles:  opts.Profiles,
		favorites: opts.Favorites,
		logger:    logger.With("component", "profile_sync"),
		metrics:   opts.Metrics,
	}
}

// Refresh fetches the profile for the held credential and makes it current.
// Without a session it does nothing and returns a zero identity.
//
// Concurrent calls for the same session generation share one request. The
// shared request is not bound to any single caller's cancellation; a caller
// whose context ends gets a canceled error and the session stays intact.
func (p *ProfileSynchronizer) Refresh(ctx context.Context) (domainauth.Identity, error) {
	snap := p.sessions.Snapshot()
	if !snap.Present || snap.Identity.Token == "" {
		metrics.EmitSession(p.metrics, metrics.SessionMetric{Op: metrics.OpRefresh, Result: metrics.ResultNoop})
		return domainauth.Identity{}, nil
	}

	key := "refresh:" + strconv.FormatUint(snap.Generation, 10)
	ch := p.group.DoChan(key, func() (any, error) {
		return p.refresh(context.WithoutCancel(ctx), snap)
	})

	select {
	case <-ctx.Done():
		return domainauth.Identity{}, apperrors.MapTransportError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domainauth.Identity{}, res.Err
		}
		return res.Val.(domainauth.Identity), nil
	}
}

func (p *ProfileSynchronizer) refresh(ctx context.Context, snap SessionSnapshot) (domainauth.Identity, error) {
	start := time.Now()
	id, err := p.fetchAndApply(ctx, snap)
	result := ""
	if errors.Is(err, ErrSessionChanged) {
		result = metrics.ResultStale
	}
	metrics.EmitSession(p.metrics, metrics.SessionMetric{
		Op: metrics.OpRefresh, Result: result, Duration: time.Since(start), Err: err,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}

	if p.favorites != nil {
		if err := p.favorites.Load(ctx, id.ID); err != nil {
			return domainauth.Identity{}, err
		}
	}
	return id, nil
}

func (p *ProfileSynchronizer) fetchAndApply(ctx context.Context, snap SessionSnapshot) (domainauth.Identity, error) {
	token := snap.Identity.Token
	profile, err := p.profiles.FetchProfile(ctx, token)
	if err == nil && (profile.ID <= 0 || profile.Username == "") {
		err = apperrors.Internal("profile response has no user id")
	}
	if err != nil {
		p.logger.WarnContext(ctx, "profile sync failed; ending session",
			"username", snap.Identity.Username, "error", err)
		return domainauth.Identity{}, invalidateSession(ctx, p.sessions, snap.Generation, err)
	}

	id := profile.WithToken(token)
	id.ExpiresAt = snap.Identity.ExpiresAt
	if err := p.sessions.replaceIfCurrent(ctx, snap.Generation, token, id); err != nil {
		return domainauth.Identity{}, err
	}
	p.logger.InfoContext(ctx, "profile synced", "username", id.Username, "user_id", id.ID)
	return id, nil
}

// invalidateSession logs out the session identified by gen and wraps cause as
// SessionInvalid. A session that has moved on is left alone.
func invalidateSession(ctx context.Context, sessions *SessionStore, gen uint64, cause error) error {
	loggedOut, clearErr := sessions.logoutIf(ctx, gen)
	if !loggedOut && clearErr == nil {
		return ErrSessionChanged
	}
	invalid := apperrors.SessionInvalid(cause)
	if clearErr != nil {
		return errors.Join(invalid, clearErr)
	}
	return invalid
}
