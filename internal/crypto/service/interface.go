// Package service provides the cryptographic services for field-level
// encryption: an AES-256-GCM AEAD primitive and the field codec that
// serializes encrypted values into the at-rest "iv:authTag:ciphertext" form.
package service

import (
	"context"

	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext
	// (tag appended) and the freshly generated IV.
	Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error)

	// Decrypt decrypts ciphertext using the provided IV and AAD, verifying
	// the authentication tag before returning any plaintext.
	Decrypt(ciphertext, iv, aad []byte) ([]byte, error)
}

// FieldCodec encrypts and decrypts individual credential field values.
// Implementations are stateless and safe for concurrent use.
type FieldCodec interface {
	// EncryptField encrypts a plaintext field value into its serialized
	// cipher record. Each call uses a fresh random IV, so encrypting the
	// same plaintext twice yields different records.
	EncryptField(plaintext string) (string, error)

	// DecryptField decrypts a serialized cipher record back into plaintext.
	// Fails closed with ErrDecryptionFailed on any authentication mismatch.
	DecryptField(record string) (string, error)

	// EncryptOptional encrypts an optional field, passing nil through.
	EncryptOptional(plaintext *string) (*string, error)

	// DecryptOptional decrypts an optional field, passing nil through.
	DecryptOptional(record *string) (*string, error)
}

// KeyLoader resolves the deployment master key from configuration, either
// directly from the environment or by unwrapping a KMS-encrypted key.
type KeyLoader interface {
	Load(ctx context.Context) (*cryptoDomain.MasterKey, error)
}
