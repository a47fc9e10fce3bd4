package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/testutil"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	id := testutil.NewIdentity().Build()

	data, err := encodeEnvelope(id)
	require.NoError(t, err)

	got, err := decodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestEnvelope_PartialIdentityKeepsEmptyRoles(t *testing.T) {
	id := testutil.NewIdentity().Partial().Build()

	data, err := encodeEnvelope(id)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"roles":[]`)

	got, err := decodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ID)
	assert.NotNil(t, got.Roles)
	assert.Empty(t, got.Roles)
}

func TestEnvelope_EncodeRejectsInvalidIdentity(t *testing.T) {
	_, err := encodeEnvelope(domainauth.Identity{Username: "alice"})
	require.Error(t, err)
}

func TestEnvelope_Decode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "empty", data: "", wantErr: errEnvelopeEmpty},
		{name: "null", data: "null", wantErr: errEnvelopeEmpty},
		{name: "array", data: `[1,2]`, wantErr: errEnvelopeShape},
		{name: "string", data: `"token"`, wantErr: errEnvelopeShape},
		{name: "trailing data", data: `{"id":1,"username":"a","token":"t"}{}`, wantErr: errEnvelopeTrailer},
		{name: "missing token", data: `{"id":1,"username":"a"}`, wantErr: errEnvelopeInvalid},
		{name: "blank username", data: `{"id":1,"username":" ","token":"t"}`, wantErr: errEnvelopeInvalid},
		{name: "negative id", data: `{"id":-3,"username":"a","token":"t"}`, wantErr: errEnvelopeInvalid},
		{name: "truncated", data: `{"id":1,"username":"a","tok`},
		{name: "wrong field type", data: `{"id":"one","username":"a","token":"t"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeEnvelope([]byte(tt.data))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEnvelope_DecodeToleratesUnknownFieldsAndMissingRoles(t *testing.T) {
	got, err := decodeEnvelope([]byte(`{"id":7,"username":"bob","token":"t","type":"Bearer"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.NotNil(t, got.Roles)
}
