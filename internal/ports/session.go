package ports

// Package ports defines interfaces (hexagonal ports) for the session layer.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/saarevents/internal/domain/auth"
)

// CredentialStore persists the serialized session envelope under a single key.
//
// Load returns (nil, nil) when nothing is stored. Implementations must replace
// the stored value atomically so a concurrent reader never sees a torn write.
type CredentialStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, envelope []byte) error
	Clear(ctx context.Context) error
}

// TokenDecoder reads claims from a self-contained federated credential.
type TokenDecoder interface {
	Decode(ctx context.Context, token string) (domainauth.Claims, error)
}

// TokenSource yields the bearer credential of the current session, or "" when
// no session exists.
type TokenSource interface {
	Token() string
}
