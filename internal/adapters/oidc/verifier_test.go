package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/saarevents/internal/ports"
	"github.com/target/saarevents/internal/testutil"
)

const testIssuer = "https://issuer.example.com"

var _ ports.TokenDecoder = (*Verifier)(nil)

func newKeyedVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keys := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	return NewVerifierWithKeySet(testIssuer, "", keys), key
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestVerifier_ValidToken(t *testing.T) {
	v, key := newKeyedVerifier(t)
	now := time.Now().Truncate(time.Second)
	token := sign(t, key, jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	claims, err := v.Decode(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestVerifier_Rejects(t *testing.T) {
	v, key := newKeyedVerifier(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	now := time.Now()

	tests := map[string]string{
		"empty": "",
		"expired": sign(t, key, jwt.RegisteredClaims{
			Issuer: testIssuer, Subject: "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		}),
		"wrong issuer": sign(t, key, jwt.RegisteredClaims{
			Issuer: "https://evil.example.com", Subject: "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}),
		"wrong key": sign(t, other, jwt.RegisteredClaims{
			Issuer: testIssuer, Subject: "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}),
		"unsigned": testutil.UnsignedToken(t, "alice", now, now.Add(time.Hour)),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Decode(context.Background(), token)
			assert.Error(t, err)
		})
	}
}

func TestNewVerifier_Discovery(t *testing.T) {
	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/auth",
			"token_endpoint":         issuer + "/token",
			"jwks_uri":               issuer + "/jwks",
		})
	}))
	defer srv.Close()
	issuer = srv.URL

	v, err := NewVerifier(context.Background(), VerifierConfig{IssuerURL: srv.URL + "/.well-known/openid-configuration"})
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestNewVerifier_RequiresIssuer(t *testing.T) {
	_, err := NewVerifier(context.Background(), VerifierConfig{})
	require.EqualError(t, err, "issuer URL is required")
}
