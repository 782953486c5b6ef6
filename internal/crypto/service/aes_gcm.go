package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM with a 16-byte
// IV, matching the at-rest cipher record format (32 hex characters per IV).
//
// Security properties:
//   - 256-bit key
//   - 16-byte IV, randomly generated per encryption and never reused or
//     derived from content
//   - 16-byte authentication tag appended to the ciphertext by Seal
//
// The cipher instance is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates an AES-256-GCM cipher from a validated master key.
func NewAESGCM(key *cryptoDomain.MasterKey) (*AESGCMCipher, error) {
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, cryptoDomain.IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a freshly generated random IV. The returned
// ciphertext carries the 16-byte authentication tag appended at the end.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext = a.aead.Seal(nil, iv, plaintext, aad)
	return ciphertext, iv, nil
}

// Decrypt opens ciphertext, recomputing the authentication tag. Any mismatch
// (tampering, corruption, wrong key) returns an error and no plaintext.
func (a *AESGCMCipher) Decrypt(ciphertext, iv, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, iv, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
