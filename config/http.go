package config

import (
	"strings"
	"time"
)

const defaultCallbackTimeout = 5 * time.Minute

// CallbackConfig contains the loopback server used to receive federated
// login credentials.
type CallbackConfig struct {
	// Addr is the address to bind the callback server to. Keep it on loopback.
	Addr string `env:"CALLBACK_ADDR" envDefault:"127.0.0.1:8765"`

	// Timeout bounds how long the CLI waits for the browser to come back.
	Timeout time.Duration `env:"CALLBACK_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to callback server configuration values.
func (c *CallbackConfig) Sanitize() {
	if c.Addr = strings.TrimSpace(c.Addr); c.Addr == "" {
		c.Addr = "127.0.0.1:8765"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultCallbackTimeout
	}
}

// RedirectURL is the URL the API redirects the browser to after login.
func (c *CallbackConfig) RedirectURL() string {
	return "http://" + c.Addr + "/auth/callback"
}
