package oidc

// Package oidc verifies federated bearer tokens against an OpenID Connect issuer.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/target/saarevents/internal/domain/auth"
)

// Verifier implements ports.TokenDecoder by verifying the token signature,
// issuer and expiry before reading its claims.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// VerifierConfig holds configuration for NewVerifier.
type VerifierConfig struct {
	IssuerURL  string
	ClientID   string       // optional; audience is not checked when empty
	HTTPClient *http.Client // optional, defaults to a 30s-timeout client
}

// NewVerifier discovers the issuer's keys and returns a Verifier.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	issuer := strings.TrimSpace(cfg.IssuerURL)
	if issuer == "" {
		return nil, errors.New("issuer URL is required")
	}
	issuer = strings.TrimSuffix(issuer, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	op, err := gooidc.NewProvider(context.WithValue(ctx, oauth2.HTTPClient, httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	return &Verifier{verifier: op.Verifier(verifierConfig(cfg.ClientID))}, nil
}

// NewVerifierWithKeySet builds a Verifier from a fixed key set, skipping discovery.
func NewVerifierWithKeySet(issuer, clientID string, keys gooidc.KeySet) *Verifier {
	return &Verifier{verifier: gooidc.NewVerifier(issuer, keys, verifierConfig(clientID))}
}

func verifierConfig(clientID string) *gooidc.Config {
	clientID = strings.TrimSpace(clientID)
	return &gooidc.Config{ClientID: clientID, SkipClientIDCheck: clientID == ""}
}

// Decode verifies the token and returns its claims.
func (v *Verifier) Decode(ctx context.Context, token string) (domainauth.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return domainauth.Claims{}, errors.New("token is empty")
	}
	idTok, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return domainauth.Claims{}, fmt.Errorf("verify token: %w", err)
	}
	if strings.TrimSpace(idTok.Subject) == "" {
		return domainauth.Claims{}, errors.New("token has no subject")
	}
	return domainauth.Claims{
		Subject:   idTok.Subject,
		IssuedAt:  idTok.IssuedAt,
		ExpiresAt: idTok.Expiry,
	}, nil
}
