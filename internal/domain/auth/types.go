package auth

// Package auth contains domain-level types for identities and credentials.
// It is pure and free of transport/storage concerns.

import (
	"slices"
	"strings"
	"time"
)

// Role is a role label as issued by the events API.
// Keep the string form exactly as the server sends it.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// Identity is the current authenticated user together with the bearer credential.
//
// Two construction paths exist: a full record from the profile endpoint (or sign-in
// response), and a partial record decoded locally from a federated token. A partial
// record has ID == 0 and no email until a profile sync replaces it.
type Identity struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []Role    `json:"roles"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"` // from the federated token's exp claim, informational
}

// IsZero reports whether no identity is present.
func (i Identity) IsZero() bool {
	return i.Username == "" && i.Token == "" && i.ID == 0
}

// IsPartial reports whether the identity still needs a profile sync before it may
// key user-scoped requests.
func (i Identity) IsPartial() bool { return i.ID <= 0 }

// HasRole reports whether the identity carries the given role label.
func (i Identity) HasRole(r Role) bool {
	return slices.Contains(i.Roles, r)
}

// IsAdmin returns true if the identity carries the administrator role.
func (i Identity) IsAdmin() bool { return i.HasRole(RoleAdmin) }

// Valid reports whether the identity is well-formed enough to be a session.
// Used at every deserialization boundary; anything else is treated as absent.
func (i Identity) Valid() bool {
	if strings.TrimSpace(i.Username) == "" || strings.TrimSpace(i.Token) == "" {
		return false
	}
	if i.ID < 0 {
		return false
	}
	for _, r := range i.Roles {
		if strings.TrimSpace(string(r)) == "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so callers cannot mutate shared role slices.
func (i Identity) Clone() Identity {
	out := i
	out.Roles = slices.Clone(i.Roles)
	return out
}

// Claims are the fields read from a self-contained federated credential.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PartialIdentity builds the locally synthesized identity for a federated credential.
// The role set is empty and the numeric identifier is zero until a profile sync.
func PartialIdentity(token string, c Claims) Identity {
	return Identity{
		ID:        0,
		Username:  c.Subject,
		Email:     "",
		Roles:     []Role{},
		Token:     token,
		ExpiresAt: c.ExpiresAt,
	}
}

// Profile is the body returned by the profile endpoint. It never echoes the credential.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles"`
}

// WithToken merges a credential into a profile to form a full identity.
func (p Profile) WithToken(token string) Identity {
	roles := p.Roles
	if roles == nil {
		roles = []Role{}
	}
	return Identity{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		Roles:    slices.Clone(roles),
		Token:    token,
	}
}
