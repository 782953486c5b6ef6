package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential is the persisted form of a credential. The four secret fields
// hold serialized cipher records ("iv:authTag:ciphertext" hex); a credential
// is never persisted with plaintext in any of them.
type Credential struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	// OwnerID is fixed at creation; ownership is never revoked by a share.
	OwnerID           uuid.UUID
	Name              string
	EncryptedUsername string
	EncryptedPassword string
	EncryptedAPIKey   *string
	EncryptedNotes    *string
	Tags              []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PlaintextCredential is the decrypted view returned to an allowed reader.
// It exists only in memory; the JSON tags keep secret fields out of logs.
type PlaintextCredential struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Username       string  `json:"-"`
	Password       string  `json:"-"`
	APIKey         *string `json:"-"`
	Notes          *string `json:"-"`
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FieldUpdates describes a partial update. Nil pointers leave the stored
// field untouched, so unchanged fields are not re-encrypted and keep their
// IVs. ClearAPIKey/ClearNotes drop the optional fields entirely.
type FieldUpdates struct {
	Name        *string
	Username    *string
	Password    *string
	APIKey      *string
	Notes       *string
	Tags        []string
	ClearAPIKey bool
	ClearNotes  bool
}

// Empty reports whether the update would change nothing.
func (u FieldUpdates) Empty() bool {
	return u.Name == nil && u.Username == nil && u.Password == nil &&
		u.APIKey == nil && u.Notes == nil && u.Tags == nil &&
		!u.ClearAPIKey && !u.ClearNotes
}
