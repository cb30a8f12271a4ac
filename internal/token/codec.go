// Package token encodes registration events into opaque, tamper-evident
// strings and decodes them back. A token is the JSON-serialized payload
// sealed with AES-256-GCM and base64url-encoded, so it is safe to place in
// a URL query parameter. Anyone holding a token can resolve the associated
// record, so callers must treat tokens as bearer credentials and keep them
// out of logs.
package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nish-jain4/qr-code-generator/internal/keyring"
)

// ErrInvalidToken is returned by Decode for any token that is malformed,
// tampered with, or sealed under a different key. The underlying cause is
// deliberately not wrapped: decode failures are surfaced to users as a
// single "invalid credential" outcome and must not leak crypto error text.
var ErrInvalidToken = errors.New("invalid token")

// Payload is the set of fields carried inside a token. The JSON array form
// on the wire keeps field boundaries unambiguous regardless of what
// characters the values contain.
type Payload struct {
	Email    string
	DeviceID string
	IssuedAt string
	Nonce    string
}

// Codec seals and opens token payloads under a single symmetric key.
type Codec struct {
	aead cipher.AEAD
}

// New creates a Codec from a raw 32-byte AES-256 key, typically the one
// returned by keyring.LoadOrCreate.
func New(key []byte) (*Codec, error) {
	if len(key) != keyring.KeySize {
		return nil, fmt.Errorf("token codec: key must be %d bytes, got %d", keyring.KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// Encode seals the payload and returns the URL-safe token string:
// base64url(nonce || ciphertext || tag). A fresh random nonce is generated
// for every call, so encoding the same payload twice yields different tokens.
func (c *Codec) Encode(p Payload) (string, error) {
	plaintext, err := json.Marshal([4]string{p.Email, p.DeviceID, p.IssuedAt, p.Nonce})
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encode token: nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token and returns the original payload. Any alteration of
// the token, down to a single character, fails GCM authentication and yields
// ErrInvalidToken rather than a different-looking valid payload.
func (c *Codec) Decode(tok string) (Payload, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return Payload{}, ErrInvalidToken
	}

	plaintext, err := c.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}

	// Unmarshal into a slice so the field count is checked explicitly; a
	// fixed-size array would zero-fill short arrays and drop extras.
	var fields []string
	if err := json.Unmarshal(plaintext, &fields); err != nil {
		return Payload{}, ErrInvalidToken
	}
	if len(fields) != 4 {
		return Payload{}, ErrInvalidToken
	}

	return Payload{
		Email:    fields[0],
		DeviceID: fields[1],
		IssuedAt: fields[2],
		Nonce:    fields[3],
	}, nil
}
