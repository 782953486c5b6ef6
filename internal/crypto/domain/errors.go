package domain

import (
	"github.com/keyfold/keyfold/internal/errors"
)

// Cryptographic error definitions.
//
// These wrap the shared sentinels from internal/errors so that the HTTP layer
// can map them without importing crypto packages.
var (
	// ErrInvalidKeySize indicates the master key is not exactly 32 bytes in
	// any accepted encoding. This is startup-fatal: the process must refuse
	// to run rather than silently truncate or pad key material.
	ErrInvalidKeySize = errors.New("master key must be exactly 32 bytes")

	// ErrMasterKeyNotSet indicates no master key was supplied in the environment.
	ErrMasterKeyNotSet = errors.New("MASTER_KEY is not set")

	// ErrDecryptionFailed indicates an authenticated decryption failed.
	//
	// Possible causes: wrong key, tampered ciphertext, corrupted record.
	// The cause is not disclosed to callers and no partial plaintext is
	// ever returned.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMalformedCipherRecord indicates a stored ciphertext is not in the
	// expected "iv:authTag:ciphertext" hex format.
	ErrMalformedCipherRecord = errors.Wrap(errors.ErrInvalidInput, "malformed cipher record")
)
