package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where the session envelope is persisted.
type SessionBackend string

const (
	// SessionBackendFile stores the envelope in a local JSON file.
	SessionBackendFile SessionBackend = "file"
	// SessionBackendRedis stores the envelope in Redis so several machines share it.
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: file, redis)", v)
	}
}

const defaultSessionKey = "user"

// SessionConfig controls how the current session is persisted.
type SessionConfig struct {
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"file"`

	// File is the envelope path for the file backend. Empty uses the user config dir.
	File string `env:"SESSION_FILE"`

	// Key names the envelope within the file or under the Redis prefix.
	Key string `env:"SESSION_KEY" envDefault:"user"`

	// RedisPrefix is prepended to Key for the redis backend.
	RedisPrefix string `env:"SESSION_REDIS_PREFIX" envDefault:"saarevents:session:"`

	// TTL expires the Redis envelope. Zero keeps it until logout.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"0s"`

	// RollbackOnFailure reverts optimistic favorite changes the server rejects.
	RollbackOnFailure bool `env:"SESSION_ROLLBACK_ON_FAILURE" envDefault:"false"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = SessionBackendFile
	}
	c.File = strings.TrimSpace(c.File)
	if c.Key = strings.TrimSpace(c.Key); c.Key == "" {
		c.Key = defaultSessionKey
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
}

// FederatedConfig controls login through an external identity provider.
type FederatedConfig struct {
	// Provider is the OAuth2 registration name on the API.
	Provider string `env:"FEDERATED_PROVIDER" envDefault:"google"`

	// IssuerURL enables signature verification of federated credentials via
	// OIDC discovery. Empty decodes claims without verification.
	IssuerURL string `env:"FEDERATED_ISSUER_URL"`

	// ClientID is the expected audience when IssuerURL is set.
	ClientID string `env:"FEDERATED_CLIENT_ID"`
}

// Sanitize applies guardrails to federated login values.
func (c *FederatedConfig) Sanitize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.IssuerURL = strings.TrimRight(strings.TrimSpace(c.IssuerURL), "/")
	c.ClientID = strings.TrimSpace(c.ClientID)
}

// VerifySignatures reports whether federated credentials are verified.
func (c *FederatedConfig) VerifySignatures() bool {
	return c.IssuerURL != ""
}
