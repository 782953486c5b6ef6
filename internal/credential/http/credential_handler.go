// Package http provides HTTP handlers for credential operations. Every
// handler resolves the requester from the context and delegates authorization
// to the credential use case, which records the audit trail.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	credentialDomain "github.com/keyfold/keyfold/internal/credential/domain"
	"github.com/keyfold/keyfold/internal/credential/http/dto"
	credentialUseCase "github.com/keyfold/keyfold/internal/credential/usecase"
	apperrors "github.com/keyfold/keyfold/internal/errors"
	"github.com/keyfold/keyfold/internal/httputil"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
	identityHTTP "github.com/keyfold/keyfold/internal/identity/http"
	customValidation "github.com/keyfold/keyfold/internal/validation"
)

// CredentialHandler handles HTTP requests for credential operations.
type CredentialHandler struct {
	credentialUC credentialUseCase.CredentialUseCase
	logger       *slog.Logger
}

// NewCredentialHandler creates a new credential handler.
func NewCredentialHandler(
	credentialUC credentialUseCase.CredentialUseCase,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		credentialUC: credentialUC,
		logger:       logger,
	}
}

// CreateHandler creates a new credential owned by the requester.
// POST /v1/credentials
// Returns 201 Created with credential metadata (secret fields excluded).
func (h *CredentialHandler) CreateHandler(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	var req dto.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credential, err := h.credentialUC.Create(c.Request.Context(), requester, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapPlaintextToMetadataResponse(credential)
	c.JSON(http.StatusCreated, response)
}

// GetHandler decrypts and returns a credential the requester may view.
// GET /v1/credentials/:id
// Returns 200 OK with the decrypted fields, or 404 whether the credential is
// missing or access was denied.
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	credentialID, ok := h.credentialID(c)
	if !ok {
		return
	}

	credential, err := h.credentialUC.Read(c.Request.Context(), requester, credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapPlaintextToGetResponse(credential)
	c.JSON(http.StatusOK, response)
}

// UpdateHandler applies a partial update to a credential.
// PATCH /v1/credentials/:id
// Returns 200 OK with credential metadata (secret fields excluded).
func (h *CredentialHandler) UpdateHandler(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	credentialID, ok := h.credentialID(c)
	if !ok {
		return
	}

	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credential, err := h.credentialUC.Write(c.Request.Context(), requester, credentialID, req.ToFieldUpdates())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapPlaintextToMetadataResponse(credential)
	c.JSON(http.StatusOK, response)
}

// ShareHandler grants a permission on a credential to a user or team.
// POST /v1/credentials/:id/shares
// Returns 204 No Content. Re-sharing the same subject replaces the grant.
func (h *CredentialHandler) ShareHandler(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	credentialID, ok := h.credentialID(c)
	if !ok {
		return
	}

	var req dto.ShareCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.credentialUC.Share(
		c.Request.Context(),
		requester,
		credentialID,
		req.ToTarget(),
		credentialDomain.Permission(req.Permission),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// RevokeHandler withdraws a grant from a user or team.
// DELETE /v1/credentials/:id/shares
// Returns 204 No Content, also when the grant never existed.
func (h *CredentialHandler) RevokeHandler(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	credentialID, ok := h.credentialID(c)
	if !ok {
		return
	}

	var req dto.RevokeShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.credentialUC.Revoke(c.Request.Context(), requester, credentialID, req.ToTarget())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// DeleteHandler removes a credential and all of its shares.
// DELETE /v1/credentials/:id
// Returns 204 No Content.
func (h *CredentialHandler) DeleteHandler(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	credentialID, ok := h.credentialID(c)
	if !ok {
		return
	}

	if err := h.credentialUC.Delete(c.Request.Context(), requester, credentialID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListHandler returns the credentials visible to the requester.
// GET /v1/credentials?offset=0&limit=50
// Returns 200 OK with metadata only; nothing is decrypted for a list.
func (h *CredentialHandler) ListHandler(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	credentials, err := h.credentialUC.List(c.Request.Context(), requester, limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapCredentialsToListResponse(credentials)
	c.JSON(http.StatusOK, response)
}

// requester pulls the resolved requester from the context. Missing means the
// requester middleware did not run; respond 401 and abort.
func (h *CredentialHandler) requester(c *gin.Context) (identityDomain.Requester, bool) {
	requester, ok := identityHTTP.GetRequester(c.Request.Context())
	if !ok {
		h.logger.Error("credential handler: no requester in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return identityDomain.Requester{}, false
	}
	return requester, true
}

// credentialID parses the :id path parameter.
func (h *CredentialHandler) credentialID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			customValidation.WrapValidationError(err),
			h.logger,
		)
		return uuid.Nil, false
	}
	return id, true
}
