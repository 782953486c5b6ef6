package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
)

func auditEventColumns() []string {
	return []string{
		"id", "request_id", "organization_id", "actor_id", "action",
		"resource_type", "resource_id", "outcome", "reason", "metadata",
		"signature", "created_at",
	}
}

func testAuditEvent() *auditDomain.AuditEvent {
	return &auditDomain.AuditEvent{
		ID:             uuid.Must(uuid.NewV7()),
		RequestID:      uuid.Must(uuid.NewV7()),
		OrganizationID: uuid.Must(uuid.NewV7()),
		ActorID:        uuid.Must(uuid.NewV7()),
		Action:         "read",
		ResourceType:   auditDomain.ResourceTypeCredential,
		ResourceID:     uuid.Must(uuid.NewV7()),
		Outcome:        auditDomain.OutcomeDeny,
		Reason:         "no_grant",
		Metadata:       map[string]any{"permission": "NO_ACCESS"},
		Signature:      []byte("sig"),
		CreatedAt:      time.Now().UTC(),
	}
}

func TestPostgreSQLAuditEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	event := testAuditEvent()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLAuditEventRepository(db)

	mock.ExpectExec(`INSERT INTO audit_events`).
		WithArgs(
			event.ID, event.RequestID, event.OrganizationID, event.ActorID,
			event.Action, event.ResourceType, event.ResourceID,
			event.Outcome, event.Reason, []byte(`{"permission":"NO_ACCESS"}`),
			event.Signature, event.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(ctx, event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditEventRepository_List(t *testing.T) {
	ctx := context.Background()
	event := testAuditEvent()

	t.Run("decodes metadata", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEventRepository(db)

		rows := sqlmock.NewRows(auditEventColumns()).AddRow(
			event.ID.String(), event.RequestID.String(), event.OrganizationID.String(),
			event.ActorID.String(), event.Action, event.ResourceType,
			event.ResourceID.String(), string(event.Outcome), event.Reason,
			[]byte(`{"permission":"NO_ACCESS"}`), event.Signature, event.CreatedAt,
		)
		mock.ExpectQuery(`SELECT (.+) FROM audit_events WHERE organization_id = \$1`).
			WithArgs(event.OrganizationID, nil, nil, 0, 50).
			WillReturnRows(rows)

		events, err := repo.List(ctx, event.OrganizationID, 0, 50, nil, nil)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, event.ID, events[0].ID)
		assert.Equal(t, auditDomain.OutcomeDeny, events[0].Outcome)
		assert.Equal(t, map[string]any{"permission": "NO_ACCESS"}, events[0].Metadata)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil metadata stays nil", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEventRepository(db)

		rows := sqlmock.NewRows(auditEventColumns()).AddRow(
			event.ID.String(), event.RequestID.String(), event.OrganizationID.String(),
			event.ActorID.String(), event.Action, event.ResourceType,
			event.ResourceID.String(), string(event.Outcome), event.Reason,
			nil, event.Signature, event.CreatedAt,
		)
		mock.ExpectQuery(`SELECT (.+) FROM audit_events WHERE organization_id = \$1`).
			WithArgs(event.OrganizationID, nil, nil, 0, 50).
			WillReturnRows(rows)

		events, err := repo.List(ctx, event.OrganizationID, 0, 50, nil, nil)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Nil(t, events[0].Metadata)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAuditEventRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	event := testAuditEvent()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLAuditEventRepository(db)

	rows := sqlmock.NewRows(auditEventColumns()).AddRow(
		event.ID.String(), event.RequestID.String(), event.OrganizationID.String(),
		event.ActorID.String(), event.Action, event.ResourceType,
		event.ResourceID.String(), string(event.Outcome), event.Reason,
		nil, event.Signature, event.CreatedAt,
	)
	mock.ExpectQuery(`SELECT (.+) FROM audit_events ORDER BY created_at ASC`).
		WithArgs(100, 50).
		WillReturnRows(rows)

	events, err := repo.ListAll(ctx, 100, 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditEventRepository_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Now().Add(-90 * 24 * time.Hour)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLAuditEventRepository(db)

	mock.ExpectExec(`DELETE FROM audit_events WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	deleted, err := repo.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
