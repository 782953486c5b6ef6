// Package domain defines the key material model for field-level encryption.
//
// The deployment holds a single 256-bit master key; every sensitive credential
// field is encrypted directly under it with a fresh random IV per value
// (envelope encryption with per-value IVs rather than per-value keys).
package domain

import (
	"encoding/base64"
	"fmt"
)

// MasterKeySize is the required master key length in bytes (AES-256).
const MasterKeySize = 32

// MasterKey holds the validated 32-byte master key for the process lifetime.
//
// Security considerations:
//   - The key must be generated with a cryptographically secure RNG.
//   - Call Close on shutdown so the material does not linger in memory.
//   - A wrong-length key is rejected outright, never truncated or padded.
type MasterKey struct {
	key []byte
}

// Bytes returns the raw key material. Callers must not retain or mutate it.
func (m *MasterKey) Bytes() []byte {
	return m.key
}

// Close zeroes the key material. The MasterKey is unusable afterwards.
func (m *MasterKey) Close() {
	Zero(m.key)
	m.key = nil
}

// NewMasterKey validates raw key bytes and wraps them in a MasterKey.
// The input slice is copied; the caller should zero its own copy.
func NewMasterKey(raw []byte) (*MasterKey, error) {
	if len(raw) != MasterKeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(raw))
	}
	key := make([]byte, MasterKeySize)
	copy(key, raw)
	return &MasterKey{key: key}, nil
}

// LoadMasterKey interprets a textual master key from the environment.
//
// The value is tried as standard base64 first; if it decodes to exactly 32
// bytes that interpretation wins. Otherwise the raw UTF-8 bytes are used,
// which must themselves be exactly 32 bytes. Any other length in both
// interpretations fails with ErrInvalidKeySize so that startup aborts.
func LoadMasterKey(raw string) (*MasterKey, error) {
	if raw == "" {
		return nil, ErrMasterKeyNotSet
	}

	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(decoded) == MasterKeySize {
			mk := &MasterKey{key: decoded}
			return mk, nil
		}
		Zero(decoded)
	}

	if len(raw) == MasterKeySize {
		return NewMasterKey([]byte(raw))
	}

	return nil, fmt.Errorf(
		"%w: value is neither 32 base64-decoded bytes nor 32 raw bytes",
		ErrInvalidKeySize,
	)
}
