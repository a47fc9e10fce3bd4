package redis

// Package redis provides Redis-based adapters for the session client.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "saarevents:session:"

// CredentialStore keeps the session envelope in Redis so several machines can
// share one login. A positive TTL bounds how long an idle session survives.
type CredentialStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// CredentialStoreOptions configures NewCredentialStore.
type CredentialStoreOptions struct {
	Client  redis.UniversalClient
	Prefix  string // default "saarevents:session:"
	Profile string // default "user"
	TTL     time.Duration
}

// NewCredentialStore creates a Redis-backed credential store.
func NewCredentialStore(opts CredentialStoreOptions) (*CredentialStore, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	profile := strings.TrimSpace(opts.Profile)
	if profile == "" {
		profile = "user"
	}
	ttl := opts.TTL
	if ttl < 0 {
		ttl = 0
	}
	return &CredentialStore{client: opts.Client, key: prefix + profile, ttl: ttl}, nil
}

// Key returns the Redis key holding the envelope.
func (s *CredentialStore) Key() string { return s.key }

// Load returns the stored envelope or nil when absent.
func (s *CredentialStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Save overwrites the envelope. SET replaces the value atomically.
func (s *CredentialStore) Save(ctx context.Context, envelope []byte) error {
	if len(envelope) == 0 {
		return errors.New("envelope cannot be empty")
	}
	if err := s.client.Set(ctx, s.key, envelope, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear removes the envelope. Clearing an absent key is not an error.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
