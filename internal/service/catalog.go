package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/ports"
)

const (
	categoriesCacheKey = "reference:categories"
	citiesCacheKey     = "reference:cities"
)

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	API      ports.CatalogAPI      // Required: public and user catalog endpoints
	Admin    ports.AdminAPI        // Optional: moderation endpoints
	Sessions *SessionStore         // Required: gates authenticated intents
	Cache    ports.CacheRepository // Optional: reference data cache
	CacheTTL time.Duration         // Optional: reference data TTL (0 = no expiry)
	Logger   *slog.Logger          // Optional: structured logger
}

// CatalogService serves event browsing and the write intents outside the
// session core. Intents that need a user are checked locally before any
// request is made.
type CatalogService struct {
	api      ports.CatalogAPI
	admin    ports.AdminAPI
	sessions *SessionStore
	cache    ports.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	if opts.API == nil {
		panic("CatalogAPI is required")
	}
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		api:      opts.API,
		admin:    opts.Admin,
		sessions: opts.Sessions,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		logger:   logger.With("component", "catalog"),
	}
}

// Events lists events matching filter.
func (c *CatalogService) Events(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	events, err := c.api.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Event returns one event.
func (c *CatalogService) Event(ctx context.Context, id int64) (model.Event, error) {
	if id <= 0 {
		return model.Event{}, apperrors.ValidationField("id", "event id must be positive")
	}
	ev, err := c.api.GetEvent(ctx, id)
	if err != nil {
		return model.Event{}, fmt.Errorf("get event %d: %w", id, err)
	}
	return ev, nil
}

// Categories returns all categories, from cache when possible.
func (c *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	return cachedList(ctx, c, categoriesCacheKey, c.api.ListCategories)
}

// Cities returns all cities, from cache when possible.
func (c *CatalogService) Cities(ctx context.Context) ([]model.City, error) {
	return cachedList(ctx, c, citiesCacheKey, c.api.ListCities)
}

// Preload warms the reference data cache concurrently.
func (c *CatalogService) Preload(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := c.Categories(gctx)
		return err
	})
	g.Go(func() error {
		_, err := c.Cities(gctx)
		return err
	})
	return g.Wait()
}

// RefreshReferenceData drops cached categories and cities and, when a cache
// is configured, warms it again.
func (c *CatalogService) RefreshReferenceData(ctx context.Context) error {
	if err := c.InvalidateReferenceData(ctx); err != nil {
		return err
	}
	if c.cache == nil {
		return nil
	}
	return c.Preload(ctx)
}

// InvalidateReferenceData drops cached categories and cities.
func (c *CatalogService) InvalidateReferenceData(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	for _, key := range []string{categoriesCacheKey, citiesCacheKey} {
		if _, err := c.cache.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

func cachedList[T any](ctx context.Context, c *CatalogService, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, key); err != nil {
			c.logger.WarnContext(ctx, "reference cache read failed", "key", key, "error", err)
		} else if raw != nil {
			var out []T
			if err := json.Unmarshal(raw, &out); err == nil {
				return out, nil
			}
			c.logger.WarnContext(ctx, "reference cache entry unreadable", "key", key)
		}
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	if c.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
				c.logger.WarnContext(ctx, "reference cache write failed", "key", key, "error", err)
			}
		}
	}
	return out, nil
}

// Reviews lists the reviews of an event.
func (c *CatalogService) Reviews(ctx context.Context, eventID int64) ([]model.Review, error) {
	if eventID <= 0 {
		return nil, apperrors.ValidationField("eventID", "event id must be positive")
	}
	reviews, err := c.api.ListReviews(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview posts a review as the signed-in user.
func (c *CatalogService) CreateReview(ctx context.Context, eventID int64, in model.ReviewInput) (model.Review, error) {
	if eventID <= 0 {
		return model.Review{}, apperrors.ValidationField("eventID", "event id must be positive")
	}
	if err := in.Validate(); err != nil {
		return model.Review{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid review")
	}
	if _, err := c.requireSession(); err != nil {
		return model.Review{}, err
	}
	review, err := c.api.CreateReview(ctx, eventID, in)
	if err != nil {
		return model.Review{}, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// SetReminder schedules a reminder for the signed-in user. The user id is
// taken from the session, so a profile sync must have completed.
func (c *CatalogService) SetReminder(ctx context.Context, eventID int64, remindAt time.Time) (model.ReminderResult, error) {
	if eventID <= 0 {
		return model.ReminderResult{}, apperrors.ValidationField("eventID", "event id must be positive")
	}
	if remindAt.IsZero() {
		return model.ReminderResult{}, apperrors.ValidationField("remindAt", "reminder time is required")
	}
	id, err := c.requireSession()
	if err != nil {
		return model.ReminderResult{}, err
	}
	if id.IsPartial() {
		return model.ReminderResult{}, apperrors.NotReady("profile has not been synced yet")
	}
	res, err := c.api.SetReminder(ctx, model.ReminderInput{UserID: id.ID, EventID: eventID, RemindAt: remindAt})
	if err != nil {
		return model.ReminderResult{}, fmt.Errorf("set reminder: %w", err)
	}
	return res, nil
}

// SubmitEvent proposes a new event for moderation.
func (c *CatalogService) SubmitEvent(ctx context.Context, in model.CreateEventInput) (model.Event, error) {
	if err := in.Validate(); err != nil {
		return model.Event{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid event")
	}
	if _, err := c.requireSession(); err != nil {
		return model.Event{}, err
	}
	ev, err := c.api.SubmitEvent(ctx, in)
	if err != nil {
		return model.Event{}, fmt.Errorf("submit event: %w", err)
	}
	return ev, nil
}

func (c *CatalogService) requireSession() (domainauth.Identity, error) {
	id, ok := c.sessions.Current()
	if !ok {
		return domainauth.Identity{}, apperrors.ErrUnauthorized
	}
	return id, nil
}

func (c *CatalogService) requireAdmin() error {
	id, err := c.requireSession()
	if err != nil {
		return err
	}
	if !id.IsAdmin() {
		return apperrors.Forbidden("administrator role required")
	}
	if c.admin == nil {
		return apperrors.Internal("admin API is not configured")
	}
	return nil
}
