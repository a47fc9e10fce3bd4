package config

import (
	"strings"
	"time"
)

const (
	defaultAPITimeout = 15 * time.Second
	maxAPIRetryLimit  = 5
)

// APIConfig contains the events API client configuration.
type APIConfig struct {
	// BaseURL is the API root including the /api path segment.
	BaseURL string `env:"API_BASE_URL" envDefault:"https://saarland-events-api-ahtoh-102ce42017ef.herokuapp.com/api"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// RetryLimit is the number of extra attempts for idempotent reads.
	RetryLimit int `env:"API_RETRY_LIMIT" envDefault:"2"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
	if c.RetryLimit > maxAPIRetryLimit {
		c.RetryLimit = maxAPIRetryLimit
	}
}
