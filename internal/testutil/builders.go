// Package testutil provides testing utilities and helpers for the session client.
package testutil

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
)

// IdentityBuilder provides a fluent interface for building identities for testing.
type IdentityBuilder struct {
	id domainauth.Identity
}

// NewIdentity creates a full identity with sensible defaults.
func NewIdentity() *IdentityBuilder {
	return &IdentityBuilder{
		id: domainauth.Identity{
			ID:       42,
			Username: "alice",
			Email:    "alice@example.com",
			Roles:    []domainauth.Role{domainauth.RoleUser},
			Token:    "token-alice",
		},
	}
}

// WithID sets the numeric identifier.
func (b *IdentityBuilder) WithID(id int64) *IdentityBuilder {
	b.id.ID = id
	return b
}

// WithUsername sets the username.
func (b *IdentityBuilder) WithUsername(username string) *IdentityBuilder {
	b.id.Username = username
	return b
}

// WithToken sets the bearer credential.
func (b *IdentityBuilder) WithToken(token string) *IdentityBuilder {
	b.id.Token = token
	return b
}

// WithRoles replaces the role set.
func (b *IdentityBuilder) WithRoles(roles ...domainauth.Role) *IdentityBuilder {
	b.id.Roles = append([]domainauth.Role{}, roles...)
	return b
}

// Partial turns the identity into the federated shape: no id, email or roles.
func (b *IdentityBuilder) Partial() *IdentityBuilder {
	b.id.ID = 0
	b.id.Email = ""
	b.id.Roles = []domainauth.Role{}
	return b
}

// Build returns the built identity.
func (b *IdentityBuilder) Build() domainauth.Identity {
	return b.id.Clone()
}

// Profile returns the profile body the API would send for the built identity.
func (b *IdentityBuilder) Profile() domainauth.Profile {
	return domainauth.Profile{
		ID:       b.id.ID,
		Username: b.id.Username,
		Email:    b.id.Email,
		Roles:    append([]domainauth.Role{}, b.id.Roles...),
	}
}

// UnsignedToken returns a compact JWT with sub/iat/exp claims and the "none" algorithm.
// Decoders that skip verification accept it; verifying decoders reject it.
func UnsignedToken(t TestingTB, subject string, issuedAt, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

// Events builds minimal event summaries with the given ids.
func Events(ids ...int64) []model.Event {
	out := make([]model.Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Event{
			ID:        id,
			EventDate: "2025-06-01T18:00:00",
			Status:    model.EventStatusApproved,
			Translations: []model.Translation{
				{Locale: "en", Name: "Event " + strconv.FormatInt(id, 10)},
			},
		})
	}
	return out
}
