package service

import (
	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
)

// fieldCodec implements FieldCodec on top of an AEAD cipher, splitting the
// sealed output into the IV / authTag / ciphertext segments of the at-rest
// record format.
type fieldCodec struct {
	cipher AEAD
}

// NewFieldCodec creates a FieldCodec backed by the given AEAD cipher.
func NewFieldCodec(cipher AEAD) FieldCodec {
	return &fieldCodec{cipher: cipher}
}

// EncryptField encrypts one field value into its serialized cipher record.
func (f *fieldCodec) EncryptField(plaintext string) (string, error) {
	sealed, iv, err := f.cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", err
	}

	// Seal appends the 16-byte tag to the ciphertext; the record format
	// stores the tag as its own segment.
	tagStart := len(sealed) - cryptoDomain.AuthTagSize
	record := cryptoDomain.CipherRecord{
		IV:         iv,
		AuthTag:    sealed[tagStart:],
		Ciphertext: sealed[:tagStart],
	}

	return record.String(), nil
}

// DecryptField parses a serialized cipher record and decrypts it. Malformed
// records and authentication failures both fail closed.
func (f *fieldCodec) DecryptField(record string) (string, error) {
	parsed, err := cryptoDomain.ParseCipherRecord(record)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(parsed.Ciphertext)+len(parsed.AuthTag))
	sealed = append(sealed, parsed.Ciphertext...)
	sealed = append(sealed, parsed.AuthTag...)

	plaintext, err := f.cipher.Decrypt(sealed, parsed.IV, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// EncryptOptional encrypts an optional field value, short-circuiting on nil.
func (f *fieldCodec) EncryptOptional(plaintext *string) (*string, error) {
	if plaintext == nil {
		return nil, nil
	}
	record, err := f.EncryptField(*plaintext)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DecryptOptional decrypts an optional field value, short-circuiting on nil.
func (f *fieldCodec) DecryptOptional(record *string) (*string, error) {
	if record == nil {
		return nil, nil
	}
	plaintext, err := f.DecryptField(*record)
	if err != nil {
		return nil, err
	}
	return &plaintext, nil
}
