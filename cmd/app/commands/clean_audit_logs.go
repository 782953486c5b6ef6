package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	auditUseCase "github.com/keyfold/keyfold/internal/audit/usecase"
)

// RunCleanAuditLogs deletes audit events older than the retention window.
// Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAuditLogs(
	ctx context.Context,
	auditUC auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	retention time.Duration,
	format string,
) error {
	if retention <= 0 {
		return fmt.Errorf("retention must be a positive duration, got: %s", retention)
	}

	cutoff := time.Now().Add(-retention)

	logger.Info("cleaning audit events",
		slog.Duration("retention", retention),
		slog.Time("cutoff", cutoff),
	)

	count, err := auditUC.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete audit events: %w", err)
	}

	if format == "json" {
		if err := outputCleanJSON(writer, count, retention, cutoff); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputCleanText(writer, count, retention)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Duration("retention", retention),
	)

	return nil
}

// outputCleanText outputs the result in human-readable text format.
func outputCleanText(writer io.Writer, count int64, retention time.Duration) {
	_, _ = fmt.Fprintf(writer,
		"Successfully deleted %d audit event(s) older than %s\n",
		count, retention,
	)
}

// outputCleanJSON outputs the result in JSON format for machine consumption.
func outputCleanJSON(writer io.Writer, count int64, retention time.Duration, cutoff time.Time) error {
	result := map[string]interface{}{
		"count":     count,
		"retention": retention.String(),
		"cutoff":    cutoff.Format(time.RFC3339),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
