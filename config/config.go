package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Events API client configuration
//   - session.go: Session storage and federated login configuration
//   - database.go: Redis and reference cache configuration
//   - http.go: Loopback callback server configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, verbose errors).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is the minimum level written by the structured logger.
	LogLevel LogLevel `env:"LOG_LEVEL" envDefault:"info"`

	// Events API client configuration
	API APIConfig

	// Session persistence configuration
	Session   SessionConfig
	Federated FederatedConfig

	// Redis backs the shared session store and the reference cache
	Redis RedisConfig `envPrefix:"REDIS_"`
	Cache CacheConfig

	// Loopback server for federated login callbacks
	Callback CallbackConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Session.Sanitize()
	c.Federated.Sanitize()
	c.Cache.Sanitize()
	c.Callback.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// NeedsRedis reports whether any enabled component talks to Redis.
func (c *AppConfig) NeedsRedis() bool {
	return c.Session.Backend == SessionBackendRedis || c.Cache.Enabled
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// LogLevel wraps slog.Level so it can be parsed from the environment.
type LogLevel slog.Level

// UnmarshalText implements encoding.TextUnmarshaler for LogLevel.
func (l *LogLevel) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "debug":
		*l = LogLevel(slog.LevelDebug)
	case "", "info":
		*l = LogLevel(slog.LevelInfo)
	case "warn", "warning":
		*l = LogLevel(slog.LevelWarn)
	case "error":
		*l = LogLevel(slog.LevelError)
	default:
		return fmt.Errorf("invalid LogLevel: %q (valid options: debug, info, warn, error)", v)
	}
	return nil
}

// Level returns the slog level.
func (l LogLevel) Level() slog.Level { return slog.Level(l) }
