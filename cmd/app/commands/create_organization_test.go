package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
	identityMocks "github.com/keyfold/keyfold/internal/identity/http/mocks"
)

func TestRunCreateOrganization(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	org := &identityDomain.Organization{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "acme",
		CreatedAt: time.Now(),
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("CreateOrganization", ctx, "acme").Return(org, nil)

		var out bytes.Buffer
		err := RunCreateOrganization(ctx, mockUseCase, logger, &out, "acme", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Organization created")
		require.Contains(t, out.String(), org.ID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("CreateOrganization", ctx, "acme").Return(org, nil)

		var out bytes.Buffer
		err := RunCreateOrganization(ctx, mockUseCase, logger, &out, "acme", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"name": "acme"`)
	})

	t.Run("empty-name", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}

		err := RunCreateOrganization(ctx, mockUseCase, logger, &bytes.Buffer{}, "   ", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "organization name cannot be empty")
		mockUseCase.AssertNotCalled(t, "CreateOrganization", mock.Anything, mock.Anything)
	})

	t.Run("usecase-error", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("CreateOrganization", ctx, "acme").Return(nil, errors.New("db down"))

		err := RunCreateOrganization(ctx, mockUseCase, logger, &bytes.Buffer{}, "acme", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create organization")
	})
}
