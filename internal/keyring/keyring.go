// Package keyring owns the lifecycle of the single symmetric encryption key:
// created on first run, reloaded from the same file on every run after.
package keyring

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// ErrKeyUnavailable is returned when the key file can neither be read nor
// created. This is fatal at startup: without the key no token can be issued
// or resolved.
var ErrKeyUnavailable = errors.New("encryption key unavailable")

// LoadOrCreate returns the raw key bytes stored at path, generating and
// persisting a fresh random key on first run. Losing the file makes every
// previously issued token unreadable; there is exactly one active key and
// no rotation.
func LoadOrCreate(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, fmt.Errorf("%w: key file %s holds %d bytes, want %d", ErrKeyUnavailable, path, len(key), KeySize)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %v", ErrKeyUnavailable, path, err)
	}

	key = make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: generate key: %v", ErrKeyUnavailable, err)
	}

	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", ErrKeyUnavailable, path, err)
	}

	return key, nil
}
