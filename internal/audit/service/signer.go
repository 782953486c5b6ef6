// Package service provides audit event signing. Events are signed with
// HMAC-SHA256 under a key derived from the master key via HKDF-SHA256, so the
// encryption and signing key usages stay separated.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
)

// Signer signs and verifies audit events.
type Signer interface {
	// Sign computes the HMAC-SHA256 signature for the event.
	Sign(event *auditDomain.AuditEvent) ([]byte, error)

	// Verify checks the event's stored signature; returns
	// ErrSignatureInvalid when the event was altered.
	Verify(event *auditDomain.AuditEvent) error
}

// signingKeyInfo versions the HKDF derivation so the scheme can change later
// without ambiguity about which key signed an old row.
const signingKeyInfo = "audit-event-signing-v1"

type hmacSigner struct {
	masterKey *cryptoDomain.MasterKey
}

// NewSigner creates an HMAC signer deriving its key from the master key.
func NewSigner(masterKey *cryptoDomain.MasterKey) Signer {
	return &hmacSigner{masterKey: masterKey}
}

// deriveSigningKey derives a dedicated 32-byte signing key via HKDF-SHA256.
func (s *hmacSigner) deriveSigningKey() ([]byte, error) {
	reader := hkdf.New(sha256.New, s.masterKey.Bytes(), nil, []byte(signingKeyInfo))

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// canonicalize produces the byte representation that gets signed. Variable
// length fields are length-prefixed so concatenations cannot be ambiguous.
func (s *hmacSigner) canonicalize(event *auditDomain.AuditEvent) ([]byte, error) {
	buf := make([]byte, 0, 512)

	buf = append(buf, event.ID[:]...)
	buf = append(buf, event.RequestID[:]...)
	buf = append(buf, event.OrganizationID[:]...)
	buf = append(buf, event.ActorID[:]...)
	buf = append(buf, event.ResourceID[:]...)

	buf = appendLengthPrefixed(buf, []byte(event.Action))
	buf = appendLengthPrefixed(buf, []byte(event.ResourceType))
	buf = appendLengthPrefixed(buf, []byte(string(event.Outcome)))
	buf = appendLengthPrefixed(buf, []byte(event.Reason))

	if event.Metadata != nil {
		metadata, err := json.Marshal(event.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadata)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	timestamp := make([]byte, 8)
	binary.BigEndian.PutUint64(timestamp, uint64(event.CreatedAt.UnixNano()))
	buf = append(buf, timestamp...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	return append(buf, data...)
}

// Sign computes the HMAC-SHA256 signature for the event.
func (s *hmacSigner) Sign(event *auditDomain.AuditEvent) ([]byte, error) {
	key, err := s.deriveSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	canonical, err := s.canonicalize(event)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize event: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify checks the event's stored signature in constant time.
func (s *hmacSigner) Verify(event *auditDomain.AuditEvent) error {
	expected, err := s.Sign(event)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(event.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}
