// Package http provides the HTTP handler for reading the audit trail.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keyfold/keyfold/internal/audit/http/dto"
	auditUseCase "github.com/keyfold/keyfold/internal/audit/usecase"
	apperrors "github.com/keyfold/keyfold/internal/errors"
	"github.com/keyfold/keyfold/internal/httputil"
	identityHTTP "github.com/keyfold/keyfold/internal/identity/http"
)

// AuditEventHandler handles HTTP requests for audit events.
type AuditEventHandler struct {
	auditUC auditUseCase.AuditUseCase
	logger  *slog.Logger
}

// NewAuditEventHandler creates a new audit event handler.
func NewAuditEventHandler(auditUC auditUseCase.AuditUseCase, logger *slog.Logger) *AuditEventHandler {
	return &AuditEventHandler{
		auditUC: auditUC,
		logger:  logger,
	}
}

// ListHandler returns audit events for the requester's organization, newest
// first. Admin only: the trail exposes decision reasons that are withheld
// from regular callers.
// GET /v1/audit-events?offset=0&limit=50&created_at_from=...&created_at_to=...
// Time bounds are RFC 3339 and inclusive.
func (h *AuditEventHandler) ListHandler(c *gin.Context) {
	requester, ok := identityHTTP.GetRequester(c.Request.Context())
	if !ok {
		h.logger.Error("audit event handler: no requester in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if !requester.IsAdmin() {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	createdAtFrom, err := parseTimeQuery(c, "created_at_from")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	createdAtTo, err := parseTimeQuery(c, "created_at_to")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	events, err := h.auditUC.List(
		c.Request.Context(),
		requester.OrganizationID,
		offset, limit,
		createdAtFrom, createdAtTo,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapAuditEventsToListResponse(events)
	c.JSON(http.StatusOK, response)
}

// parseTimeQuery parses an optional RFC 3339 time query parameter.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter: must be an RFC 3339 timestamp", name)
	}

	return &parsed, nil
}
