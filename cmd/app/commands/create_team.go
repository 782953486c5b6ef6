package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
)

// RunCreateTeam creates a new team in an organization. Teams carry
// team-wide credential shares; moving a user between teams changes their
// effective access on the next request.
//
// Requirements: Database must be migrated and the organization must exist.
func RunCreateTeam(
	ctx context.Context,
	identityUC identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	organizationIDStr, name string,
	format string,
) error {
	organizationID, err := uuid.Parse(organizationIDStr)
	if err != nil {
		return fmt.Errorf("invalid organization-id: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("team name cannot be empty")
	}

	logger.Info("creating team",
		slog.String("organization_id", organizationID.String()),
		slog.String("name", name),
	)

	team, err := identityUC.CreateTeam(ctx, organizationID, name)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":              team.ID.String(),
			"organization_id": team.OrganizationID.String(),
			"name":            team.Name,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(writer, "Team created\n")
		_, _ = fmt.Fprintf(writer, "  ID:   %s\n", team.ID)
		_, _ = fmt.Fprintf(writer, "  Name: %s\n", team.Name)
	}

	logger.Info("team created successfully",
		slog.String("team_id", team.ID.String()),
	)

	return nil
}
