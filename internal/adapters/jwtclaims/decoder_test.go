package jwtclaims

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/saarevents/internal/ports"
	"github.com/target/saarevents/internal/testutil"
)

var _ ports.TokenDecoder = (*Decoder)(nil)

func TestDecoder_Decode(t *testing.T) {
	iat := time.Unix(1_700_000_000, 0)
	exp := iat.Add(time.Hour)
	token := testutil.UnsignedToken(t, "alice", iat, exp)

	claims, err := NewDecoder().Decode(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.IssuedAt.Equal(iat))
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestDecoder_SignedTokenIsReadWithoutKey(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "bob"}).
		SignedString([]byte("server-secret"))
	require.NoError(t, err)

	claims, err := NewDecoder().Decode(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestDecoder_ExpiredTokenStillDecodes(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	token := testutil.UnsignedToken(t, "carol", past, past.Add(time.Hour))

	claims, err := NewDecoder().Decode(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "carol", claims.Subject)
}

func TestDecoder_Malformed(t *testing.T) {
	noSub := testutil.UnsignedToken(t, "", time.Now(), time.Now().Add(time.Hour))

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not-a-jwt",
		"two parts":  "a.b",
		"bad base64": "###.###.###",
		"no subject": noSub,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewDecoder().Decode(context.Background(), token)
			assert.Error(t, err)
		})
	}
}
