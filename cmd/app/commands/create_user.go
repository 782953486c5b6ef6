package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
)

// RunCreateUser creates a new user in an organization. The user ID printed
// on success is what API callers send in the X-User-Id header.
//
// Requirements: Database must be migrated and the organization must exist.
func RunCreateUser(
	ctx context.Context,
	identityUC identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	organizationIDStr, email, name, roleStr, teamIDStr string,
	format string,
) error {
	organizationID, err := uuid.Parse(organizationIDStr)
	if err != nil {
		return fmt.Errorf("invalid organization-id: %w", err)
	}

	role, err := parseRole(roleStr)
	if err != nil {
		return err
	}

	var teamID *uuid.UUID
	if teamIDStr != "" {
		parsed, err := uuid.Parse(teamIDStr)
		if err != nil {
			return fmt.Errorf("invalid team-id: %w", err)
		}
		teamID = &parsed
	}

	logger.Info("creating user",
		slog.String("organization_id", organizationID.String()),
		slog.String("email", email),
		slog.String("role", string(role)),
	)

	user, err := identityUC.CreateUser(ctx, organizationID, email, name, role, teamID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":              user.ID.String(),
			"organization_id": user.OrganizationID.String(),
			"email":           user.Email,
			"name":            user.Name,
			"role":            string(user.Role),
		}
		if user.TeamID != nil {
			result["team_id"] = user.TeamID.String()
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(writer, "User created\n")
		_, _ = fmt.Fprintf(writer, "  ID:    %s\n", user.ID)
		_, _ = fmt.Fprintf(writer, "  Email: %s\n", user.Email)
		_, _ = fmt.Fprintf(writer, "  Role:  %s\n", user.Role)
		if user.TeamID != nil {
			_, _ = fmt.Fprintf(writer, "  Team:  %s\n", user.TeamID)
		}
		_, _ = fmt.Fprintf(writer, "\nUse this ID in the X-User-Id request header\n")
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
	)

	return nil
}
