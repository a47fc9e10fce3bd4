package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/target/saarevents/internal/domain/favorites"
	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/observability/metrics"
	"github.com/target/saarevents/internal/observability/statsd"
	"github.com/target/saarevents/internal/ports"
)

// FavoritesManagerOptions groups dependencies for FavoritesManager.
type FavoritesManagerOptions struct {
	Sessions *SessionStore      // Required: session whose user owns the set
	API      ports.FavoritesAPI // Required: favorites endpoints
	Logger   *slog.Logger       // Optional: structured logger
	Metrics  statsd.Sink        // Optional: lifecycle metrics
}

// FavoritesManager keeps the favorited event ids of the signed-in user.
//
// The set moves Empty -> Loading -> Ready and back to Empty whenever the
// session starts or ends. Mutations are local; callers push them to the
// server and decide what to do when that fails.
type FavoritesManager struct {
	sessions *SessionStore
	api      ports.FavoritesAPI
	logger   *slog.Logger
	metrics  statsd.Sink

	mu    sync.RWMutex
	state favorites.State
	set   favorites.Set
	// epoch increments on every reset and load start; a load applies its
	// result only if the epoch it started with is still current.
	epoch   uint64
	lastGen uint64

	unsubscribe func()
}

// NewFavoritesManager constructs a FavoritesManager subscribed to the session store.
func NewFavoritesManager(opts FavoritesManagerOptions) *FavoritesManager {
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.API == nil {
		panic("FavoritesAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &FavoritesManager{
		sessions: opts.Sessions,
		api:      opts.API,
		logger:   logger.With("component", "favorites"),
		metrics:  opts.Metrics,
		state:    favorites.StateEmpty,
		set:      favorites.NewSet(),
	}
	m.unsubscribe = opts.Sessions.Subscribe(m.onSession)
	return m
}

// Close detaches the manager from the session store.
func (m *FavoritesManager) Close() {
	m.unsubscribe()
}

func (m *FavoritesManager) onSession(ev SessionEvent) {
	if ev.Kind == SessionRefresh {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.Generation < m.lastGen {
		return
	}
	m.lastGen = ev.Generation
	m.resetLocked()
}

func (m *FavoritesManager) resetLocked() {
	m.epoch++
	m.state = favorites.StateEmpty
	m.set = favorites.NewSet()
}

// Load replaces the set with the server's list for userID. Any failure other
// than caller cancellation logs the session out and returns SessionInvalid.
func (m *FavoritesManager) Load(ctx context.Context, userID int64) error {
	start := time.Now()
	err := m.load(ctx, userID)
	result := ""
	if errors.Is(err, ErrSessionChanged) {
		result = metrics.ResultStale
	}
	metrics.EmitSession(m.metrics, metrics.SessionMetric{
		Op: metrics.OpFavoritesLoad, Result: result, Duration: time.Since(start), Err: err,
	})
	return err
}

func (m *FavoritesManager) load(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return apperrors.ValidationField("userID", "favorites require a positive user id")
	}
	snap := m.sessions.Snapshot()
	if !snap.Present {
		return apperrors.ErrUnauthorized
	}
	if snap.Identity.ID != userID {
		return apperrors.Validationf("user %d is not the signed-in user", userID)
	}

	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.state = favorites.StateLoading
	m.mu.Unlock()

	events, err := m.api.ListFavorites(ctx, userID)
	if err != nil {
		m.abortLoad(epoch)
		if ctx.Err() != nil {
			return apperrors.MapTransportError(ctx.Err())
		}
		m.logger.WarnContext(ctx, "favorites load failed; ending session", "user_id", userID, "error", err)
		return invalidateSession(ctx, m.sessions, snap.Generation, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch || m.sessions.Generation() != snap.Generation {
		return ErrSessionChanged
	}
	m.set = favorites.NewSet(model.EventIDs(events)...)
	m.state = favorites.StateReady
	m.logger.DebugContext(ctx, "favorites loaded", "user_id", userID, "count", m.set.Len())
	return nil
}

func (m *FavoritesManager) abortLoad(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch == epoch {
		m.state = favorites.StateEmpty
	}
}

// Add marks eventID as a favorite. Adding a present id is a no-op.
func (m *FavoritesManager) Add(eventID int64) error {
	_, _, err := m.apply(eventID, true)
	return err
}

// Remove unmarks eventID. Removing an absent id is a no-op.
func (m *FavoritesManager) Remove(eventID int64) error {
	_, _, err := m.apply(eventID, false)
	return err
}

// apply mutates the set. It reports whether the set changed and the epoch
// the change belongs to, for a later revert.
func (m *FavoritesManager) apply(eventID int64, add bool) (bool, uint64, error) {
	if eventID <= 0 {
		return false, 0, apperrors.ValidationField("eventID", "event id must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != favorites.StateReady {
		return false, m.epoch, apperrors.NotReady(fmt.Sprintf("favorites are %s", m.state))
	}
	if add {
		return m.set.Add(eventID), m.epoch, nil
	}
	return m.set.Remove(eventID), m.epoch, nil
}

// revert undoes an earlier apply, provided no reset happened in between.
func (m *FavoritesManager) revert(eventID int64, added bool, epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch || m.state != favorites.StateReady {
		return
	}
	if added {
		m.set.Remove(eventID)
	} else {
		m.set.Add(eventID)
	}
}

// Contains reports whether eventID is a favorite.
func (m *FavoritesManager) Contains(eventID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.Contains(eventID)
}

// State returns the current lifecycle state.
func (m *FavoritesManager) State() favorites.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IDs returns the favorited ids in ascending order.
func (m *FavoritesManager) IDs() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.IDs()
}
