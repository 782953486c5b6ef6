package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
)

// RunCreateOrganization creates a new organization tenant. Every credential,
// user and team belongs to exactly one organization.
//
// Requirements: Database must be migrated and accessible.
func RunCreateOrganization(
	ctx context.Context,
	identityUC identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	format string,
) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("organization name cannot be empty")
	}

	logger.Info("creating organization", slog.String("name", name))

	org, err := identityUC.CreateOrganization(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":   org.ID.String(),
			"name": org.Name,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(writer, "Organization created\n")
		_, _ = fmt.Fprintf(writer, "  ID:   %s\n", org.ID)
		_, _ = fmt.Fprintf(writer, "  Name: %s\n", org.Name)
	}

	logger.Info("organization created successfully",
		slog.String("organization_id", org.ID.String()),
	)

	return nil
}
