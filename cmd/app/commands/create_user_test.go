package commands

import (
	"bytes"
	"context"
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

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	organizationID := uuid.Must(uuid.NewV7())
	teamID := uuid.Must(uuid.NewV7())
	user := &identityDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: organizationID,
		Email:          "alice@example.com",
		Name:           "Alice",
		Role:           identityDomain.RoleAdmin,
		CreatedAt:      time.Now(),
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On(
			"CreateUser", ctx, organizationID, "alice@example.com", "Alice",
			identityDomain.RoleAdmin, (*uuid.UUID)(nil),
		).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(
			ctx, mockUseCase, logger, &out,
			organizationID.String(), "alice@example.com", "Alice", "ADMIN", "",
			"text",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), user.ID.String())
		require.Contains(t, out.String(), "X-User-Id")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("with-team", func(t *testing.T) {
		teamUser := *user
		teamUser.Role = identityDomain.RoleUser
		teamUser.TeamID = &teamID

		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On(
			"CreateUser", ctx, organizationID, "alice@example.com", "Alice",
			identityDomain.RoleUser, &teamID,
		).Return(&teamUser, nil)

		var out bytes.Buffer
		err := RunCreateUser(
			ctx, mockUseCase, logger, &out,
			organizationID.String(), "alice@example.com", "Alice", "USER", teamID.String(),
			"json",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), teamID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-organization-id", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}

		err := RunCreateUser(
			ctx, mockUseCase, logger, &bytes.Buffer{},
			"not-a-uuid", "alice@example.com", "Alice", "USER", "",
			"text",
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid organization-id")
		mockUseCase.AssertNotCalled(t, "CreateUser",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid-role", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}

		err := RunCreateUser(
			ctx, mockUseCase, logger, &bytes.Buffer{},
			organizationID.String(), "alice@example.com", "Alice", "SUPERUSER", "",
			"text",
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid role")
	})

	t.Run("invalid-team-id", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}

		err := RunCreateUser(
			ctx, mockUseCase, logger, &bytes.Buffer{},
			organizationID.String(), "alice@example.com", "Alice", "USER", "not-a-uuid",
			"text",
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid team-id")
	})
}
