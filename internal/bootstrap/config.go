package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/saarevents/config"
)

// InitLogger initializes the structured logger. Logs go to stderr so command
// output on stdout stays machine readable; dev mode switches to text.
func InitLogger(level slog.Level, isDev bool) *slog.Logger {
	logger := newLogger(os.Stderr, level, isDev)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, level slog.Level, isDev bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isDev {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
