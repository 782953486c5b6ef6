// Package dto provides data transfer objects for audit event responses.
package dto

import (
	"time"

	auditDomain "github.com/keyfold/keyfold/internal/audit/domain"
)

// AuditEventResponse represents an audit event in API responses.
// The signature is omitted; verification happens through the CLI, not the API.
type AuditEventResponse struct {
	ID             string         `json:"id"`
	RequestID      string         `json:"request_id"`
	OrganizationID string         `json:"organization_id"`
	ActorID        string         `json:"actor_id"`
	Action         string         `json:"action"`
	ResourceType   string         `json:"resource_type"`
	ResourceID     string         `json:"resource_id"`
	Outcome        string         `json:"outcome"`
	Reason         string         `json:"reason"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ListAuditEventsResponse represents a paginated list of audit events.
type ListAuditEventsResponse struct {
	Data []AuditEventResponse `json:"data"`
}

// MapAuditEventsToListResponse converts domain audit events to a list response.
func MapAuditEventsToListResponse(events []*auditDomain.AuditEvent) ListAuditEventsResponse {
	data := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		data = append(data, AuditEventResponse{
			ID:             event.ID.String(),
			RequestID:      event.RequestID.String(),
			OrganizationID: event.OrganizationID.String(),
			ActorID:        event.ActorID.String(),
			Action:         event.Action,
			ResourceType:   event.ResourceType,
			ResourceID:     event.ResourceID.String(),
			Outcome:        string(event.Outcome),
			Reason:         event.Reason,
			Metadata:       event.Metadata,
			CreatedAt:      event.CreatedAt,
		})
	}

	return ListAuditEventsResponse{
		Data: data,
	}
}
