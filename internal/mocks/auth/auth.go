package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.TokenDecoder    = (*StaticDecoder)(nil)
	_ ports.CacheRepository = (*MemoryCache)(nil)
)

// MemoryCredentialStore is an in-memory credential store for unit tests.
// Set SaveErr/ClearErr/LoadErr to simulate storage failures.
type MemoryCredentialStore struct {
	mu       sync.Mutex
	data     []byte
	saves    int
	clears   int
	SaveErr  error
	ClearErr error
	LoadErr  error
}

// NewMemoryCredentialStore creates a store, optionally pre-seeded with an envelope.
func NewMemoryCredentialStore(seed []byte) *MemoryCredentialStore {
	return &MemoryCredentialStore{data: append([]byte(nil), seed...)}
}

func (m *MemoryCredentialStore) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if len(m.data) == 0 {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryCredentialStore) Save(_ context.Context, envelope []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saves++
	m.data = append([]byte(nil), envelope...)
	return nil
}

func (m *MemoryCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.clears++
	m.data = nil
	return nil
}

// Raw returns the stored envelope without going through Load.
func (m *MemoryCredentialStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Saves reports how many successful Save calls were made.
func (m *MemoryCredentialStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Clears reports how many successful Clear calls were made.
func (m *MemoryCredentialStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// ErrUnknownToken is returned by StaticDecoder for tokens it was not given.
var ErrUnknownToken = errors.New("unknown token")

// StaticDecoder decodes tokens from a fixed table.
type StaticDecoder struct {
	Tokens map[string]domainauth.Claims
}

// NewStaticDecoder creates a decoder that knows one token with the given subject.
func NewStaticDecoder(token, subject string) *StaticDecoder {
	now := time.Now()
	return &StaticDecoder{Tokens: map[string]domainauth.Claims{
		token: {Subject: subject, IssuedAt: now, ExpiresAt: now.Add(time.Hour)},
	}}
}

func (d *StaticDecoder) Decode(_ context.Context, token string) (domainauth.Claims, error) {
	c, ok := d.Tokens[token]
	if !ok {
		return domainauth.Claims{}, ErrUnknownToken
	}
	return c, nil
}

// MemoryCache is an in-memory cache repository. TTLs are recorded, not enforced.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	gets int
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	c.ttls[key] = ttl
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	delete(c.data, key)
	delete(c.ttls, key)
	return ok, nil
}

func (c *MemoryCache) Health(context.Context) error { return nil }

// TTL returns the TTL recorded for key.
func (c *MemoryCache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}
