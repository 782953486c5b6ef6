package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditMocks "github.com/keyfold/keyfold/internal/audit/usecase/mocks"
)

func TestRunVerifyAuditLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("all-valid-text", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, 500).Return(42, []uuid.UUID(nil), nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, 500, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Total Checked:  42")
		require.Contains(t, out.String(), "Status: PASSED")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-signatures-fail", func(t *testing.T) {
		badID := uuid.Must(uuid.NewV7())
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, 500).Return(10, []uuid.UUID{badID}, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, 500, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "integrity check failed: 1 invalid signature(s)")
		require.Contains(t, out.String(), badID.String())
		require.Contains(t, out.String(), "Status: FAILED")
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, 100).Return(7, []uuid.UUID(nil), nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, 100, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"total_checked": 7`)
		require.Contains(t, out.String(), `"passed": true`)
	})

	t.Run("no-events", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, 500).Return(0, []uuid.UUID(nil), nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, 500, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Status: No events found")
	})

	t.Run("invalid-batch-size", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &bytes.Buffer{}, 0, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "batch-size must be greater than 0")
		mockUseCase.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("verify-error", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, 500).Return(0, []uuid.UUID(nil), errors.New("db down"))

		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &bytes.Buffer{}, 500, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to verify audit events")
	})
}
