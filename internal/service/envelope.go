package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	domainauth "github.com/target/saarevents/internal/domain/auth"
)

var (
	errEnvelopeEmpty   = errors.New("envelope is empty")
	errEnvelopeShape   = errors.New("envelope is not a JSON object")
	errEnvelopeTrailer = errors.New("envelope has trailing data")
	errEnvelopeInvalid = errors.New("envelope does not describe a usable identity")
)

// encodeEnvelope serializes an identity for the credential store.
func encodeEnvelope(id domainauth.Identity) ([]byte, error) {
	if !id.Valid() {
		return nil, errEnvelopeInvalid
	}
	data, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// decodeEnvelope parses a stored envelope. Anything other than exactly one
// JSON object describing a valid identity is an error. Unknown members are
// tolerated so envelopes written from a raw sign-in response still load.
func decodeEnvelope(data []byte) (domainauth.Identity, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return domainauth.Identity{}, errEnvelopeEmpty
	}
	if data[0] != '{' {
		return domainauth.Identity{}, errEnvelopeShape
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var id domainauth.Identity
	if err := dec.Decode(&id); err != nil {
		return domainauth.Identity{}, fmt.Errorf("decode envelope: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domainauth.Identity{}, errEnvelopeTrailer
	}
	if !id.Valid() {
		return domainauth.Identity{}, errEnvelopeInvalid
	}
	if id.Roles == nil {
		id.Roles = []domainauth.Role{}
	}
	return id, nil
}
