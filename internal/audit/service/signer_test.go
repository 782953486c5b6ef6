package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
)

func testSigner(t *testing.T, seed string) Signer {
	t.Helper()

	mk, err := cryptoDomain.NewMasterKey([]byte(strings.Repeat(seed, 32)))
	require.NoError(t, err)
	t.Cleanup(mk.Close)

	return NewSigner(mk)
}

func testEvent() *auditDomain.AuditEvent {
	return &auditDomain.AuditEvent{
		ID:             uuid.Must(uuid.NewV7()),
		RequestID:      uuid.Must(uuid.NewV7()),
		OrganizationID: uuid.Must(uuid.NewV7()),
		ActorID:        uuid.Must(uuid.NewV7()),
		Action:         "credential_read",
		ResourceType:   auditDomain.ResourceTypeCredential,
		ResourceID:     uuid.Must(uuid.NewV7()),
		Outcome:        auditDomain.OutcomeAllow,
		Reason:         "owner",
		Metadata:       map[string]any{"operation": "READ"},
		CreatedAt:      time.Now().UTC(),
	}
}

func TestSigner_SignAndVerify(t *testing.T) {
	signer := testSigner(t, "a")
	event := testEvent()

	signature, err := signer.Sign(event)
	require.NoError(t, err)
	assert.Len(t, signature, 32)

	event.Signature = signature
	assert.NoError(t, signer.Verify(event))
}

func TestSigner_Deterministic(t *testing.T) {
	signer := testSigner(t, "a")
	event := testEvent()

	sig1, err := signer.Sign(event)
	require.NoError(t, err)
	sig2, err := signer.Sign(event)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2)
}

func TestSigner_DetectsTampering(t *testing.T) {
	signer := testSigner(t, "a")

	fields := map[string]func(*auditDomain.AuditEvent){
		"Action":    func(e *auditDomain.AuditEvent) { e.Action = "credential_write" },
		"Outcome":   func(e *auditDomain.AuditEvent) { e.Outcome = auditDomain.OutcomeDeny },
		"Reason":    func(e *auditDomain.AuditEvent) { e.Reason = "admin_override" },
		"ActorID":   func(e *auditDomain.AuditEvent) { e.ActorID = uuid.Must(uuid.NewV7()) },
		"CreatedAt": func(e *auditDomain.AuditEvent) { e.CreatedAt = e.CreatedAt.Add(time.Second) },
		"Metadata":  func(e *auditDomain.AuditEvent) { e.Metadata = map[string]any{"operation": "WRITE"} },
	}

	for name, mutate := range fields {
		t.Run(name, func(t *testing.T) {
			event := testEvent()
			signature, err := signer.Sign(event)
			require.NoError(t, err)
			event.Signature = signature

			mutate(event)
			assert.ErrorIs(t, signer.Verify(event), auditDomain.ErrSignatureInvalid)
		})
	}
}

func TestSigner_DifferentKeysProduceDifferentSignatures(t *testing.T) {
	event := testEvent()

	sig1, err := testSigner(t, "a").Sign(event)
	require.NoError(t, err)
	sig2, err := testSigner(t, "b").Sign(event)
	require.NoError(t, err)

	assert.NotEqual(t, sig1, sig2)
}

func TestSigner_NilMetadata(t *testing.T) {
	signer := testSigner(t, "a")
	event := testEvent()
	event.Metadata = nil

	signature, err := signer.Sign(event)
	require.NoError(t, err)

	event.Signature = signature
	assert.NoError(t, signer.Verify(event))
}
