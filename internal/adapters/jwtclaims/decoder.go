// Package jwtclaims reads claims from federated bearer tokens without verifying them.
//
// The token is issued by the events API itself and verified there on every
// request, so the client only needs the subject and timestamps to build a
// provisional identity. Use the oidc adapter when local verification is wanted.
package jwtclaims

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/target/saarevents/internal/domain/auth"
)

var errMissingSubject = errors.New("token has no subject")

// Decoder implements ports.TokenDecoder with an unverified parse.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder returns a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode parses the compact token and returns sub/iat/exp. The signature and
// expiry are not checked.
func (d *Decoder) Decode(_ context.Context, token string) (domainauth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domainauth.Claims{}, errors.New("token is empty")
	}

	var claims jwt.RegisteredClaims
	if _, _, err := d.parser.ParseUnverified(token, &claims); err != nil {
		return domainauth.Claims{}, fmt.Errorf("parse token: %w", err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return domainauth.Claims{}, errMissingSubject
	}

	return domainauth.Claims{
		Subject:   claims.Subject,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
	}, nil
}

func numericTime(n *jwt.NumericDate) time.Time {
	if n == nil {
		return time.Time{}
	}
	return n.Time
}
