package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Sizes of the fixed-length segments of a cipher record, in bytes.
const (
	// IVSize is the AES-GCM initialization vector length. 16 bytes serialize
	// to the 32 hex characters the at-rest format requires.
	IVSize = 16
	// AuthTagSize is the GCM authentication tag length.
	AuthTagSize = 16
)

// CipherRecord is the at-rest representation of one encrypted field.
//
// The serialized form is the ASCII string
//
//	"<32-hex IV>:<32-hex authTag>:<variable-hex ciphertext>"
//
// and must be preserved exactly for interoperability with existing rows.
type CipherRecord struct {
	IV         []byte
	AuthTag    []byte
	Ciphertext []byte
}

// String serializes the record into its three-segment hex form.
func (r CipherRecord) String() string {
	return fmt.Sprintf(
		"%s:%s:%s",
		hex.EncodeToString(r.IV),
		hex.EncodeToString(r.AuthTag),
		hex.EncodeToString(r.Ciphertext),
	)
}

// ParseCipherRecord parses and validates the serialized three-segment form.
// The IV and authTag segments must decode to exactly 16 bytes each.
func ParseCipherRecord(s string) (CipherRecord, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return CipherRecord{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedCipherRecord, len(parts))
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != IVSize {
		return CipherRecord{}, fmt.Errorf("%w: bad iv segment", ErrMalformedCipherRecord)
	}

	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != AuthTagSize {
		return CipherRecord{}, fmt.Errorf("%w: bad auth tag segment", ErrMalformedCipherRecord)
	}

	ct, err := hex.DecodeString(parts[2])
	if err != nil {
		return CipherRecord{}, fmt.Errorf("%w: bad ciphertext segment", ErrMalformedCipherRecord)
	}

	return CipherRecord{IV: iv, AuthTag: tag, Ciphertext: ct}, nil
}
