package config

import (
	"strings"
	"time"
)

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains reference data cache configuration (Redis-based).
type CacheConfig struct {
	Enabled bool `env:"CACHE_ENABLED" envDefault:"false"`

	// Prefix namespaces cache keys.
	Prefix string `env:"CACHE_PREFIX" envDefault:"saarevents:cache:"`

	// ReferenceTTL is the TTL for cached categories and cities.
	ReferenceTTL time.Duration `env:"CACHE_REFERENCE_TTL" envDefault:"1h"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	c.Prefix = strings.TrimSpace(c.Prefix)
	if c.ReferenceTTL < 0 {
		c.ReferenceTTL = 0
	}
}
