package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/target/saarevents/config"
	"github.com/target/saarevents/internal/adapters/eventsapi"
	"github.com/target/saarevents/internal/adapters/filestore"
	"github.com/target/saarevents/internal/adapters/jwtclaims"
	"github.com/target/saarevents/internal/adapters/oidc"
	redisadapter "github.com/target/saarevents/internal/adapters/redis"
	"github.com/target/saarevents/internal/observability/statsd"
	"github.com/target/saarevents/internal/ports"
	"github.com/target/saarevents/internal/service"
)

// App holds the wired services for one command invocation.
type App struct {
	Config  config.AppConfig
	Session *service.Session
	Catalog *service.CatalogService
	Cache   ports.CacheRepository // nil when the reference cache is disabled
	Metrics *statsd.Client
	Redis   redis.UniversalClient // nil unless a component needs it
	Logger  *slog.Logger
}

// AppDeps groups dependencies for NewApp.
type AppDeps struct {
	Config config.AppConfig
	Logger *slog.Logger

	// Redis overrides the connection built from Config.Redis (used in tests).
	Redis redis.UniversalClient
}

// NewApp builds the adapters and services described by the configuration.
func NewApp(ctx context.Context, deps AppDeps) (*App, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	app := &App{Config: cfg, Logger: logger, Redis: deps.Redis}
	app.Metrics = buildMetrics(logger, cfg.Observability.Metrics)

	if app.Redis == nil && cfg.NeedsRedis() {
		client, err := ConnectRedis(ctx, RedisConnectConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return nil, errors.Join(err, app.Close())
		}
		app.Redis = client
	}

	creds, err := buildCredentialStore(app.Redis, cfg.Session, logger)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}
	decoder, err := buildTokenDecoder(ctx, cfg.Federated)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}

	tokens := &tokenRelay{}
	client, err := eventsapi.NewClient(eventsapi.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		RetryLimit: cfg.API.RetryLimit,
		Tokens:     tokens,
		Logger:     logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create api client: %w", err), app.Close())
	}

	app.Session = service.NewSession(service.SessionOptions{
		Store:   creds,
		API:     client,
		Decoder: decoder,
		Config: service.SessionConfig{
			RollbackOnFailure: cfg.Session.RollbackOnFailure,
			APIBaseURL:        cfg.API.BaseURL,
			FederatedProvider: cfg.Federated.Provider,
		},
		Logger:  logger,
		Metrics: app.Metrics,
	})
	tokens.bind(app.Session.Store())

	if cfg.Cache.Enabled && app.Redis != nil {
		app.Cache = redisadapter.NewCacheRepo(app.Redis, cfg.Cache.Prefix)
	}
	app.Catalog = service.NewCatalogService(service.CatalogServiceOptions{
		API:      client,
		Admin:    client,
		Sessions: app.Session.Store(),
		Cache:    app.Cache,
		CacheTTL: cfg.Cache.ReferenceTTL,
		Logger:   logger,
	})

	return app, nil
}

// Close flushes metrics and releases connections.
func (a *App) Close() error {
	var errs []error
	if a.Session != nil {
		a.Session.Close()
	}
	if a.Metrics != nil {
		if err := a.Metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close metrics: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		client, _ = statsd.NewClient(statsd.Config{Logger: logger})
	}
	return client
}

//nolint:ireturn // the backend is chosen at runtime.
func buildCredentialStore(
	client redis.UniversalClient,
	cfg config.SessionConfig,
	logger *slog.Logger,
) (ports.CredentialStore, error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		if client == nil {
			return nil, errors.New("redis session backend selected but no redis client is configured")
		}
		store, err := redisadapter.NewCredentialStore(redisadapter.CredentialStoreOptions{
			Client:  client,
			Prefix:  cfg.RedisPrefix,
			Profile: cfg.Key,
			TTL:     cfg.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis credential store: %w", err)
		}
		return store, nil
	default:
		path := cfg.File
		if path == "" {
			p, err := filestore.DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("resolve session file: %w", err)
			}
			path = p
		}
		store, err := filestore.New(filestore.Options{Path: path, Key: cfg.Key, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("create file credential store: %w", err)
		}
		return store, nil
	}
}

// buildTokenDecoder verifies federated tokens against the issuer when one is
// configured and otherwise only reads their claims.
//
//nolint:ireturn // either decoder satisfies the port.
func buildTokenDecoder(ctx context.Context, cfg config.FederatedConfig) (ports.TokenDecoder, error) {
	if !cfg.VerifySignatures() {
		return jwtclaims.NewDecoder(), nil
	}
	v, err := oidc.NewVerifier(ctx, oidc.VerifierConfig{IssuerURL: cfg.IssuerURL, ClientID: cfg.ClientID})
	if err != nil {
		return nil, fmt.Errorf("create token verifier: %w", err)
	}
	return v, nil
}

// tokenRelay lets the API client read the session credential from a store
// that is constructed after the client.
type tokenRelay struct {
	src atomic.Pointer[service.SessionStore]
}

func (r *tokenRelay) bind(s *service.SessionStore) { r.src.Store(s) }

func (r *tokenRelay) Token() string {
	if s := r.src.Load(); s != nil {
		return s.Token()
	}
	return ""
}
