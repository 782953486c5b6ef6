package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/keyfold/keyfold/internal/errors"
	"github.com/keyfold/keyfold/internal/httputil"
	identityDomain "github.com/keyfold/keyfold/internal/identity/domain"
	identityUseCase "github.com/keyfold/keyfold/internal/identity/usecase"
)

// Request headers set by the upstream identity collaborator.
const (
	// HeaderUserID carries the authenticated user's ID.
	HeaderUserID = "X-User-Id"

	// HeaderMFAVerified marks that the caller passed the upstream MFA gate.
	// Consumed as a precondition for admin requests only; the challenge flow
	// itself lives upstream.
	HeaderMFAVerified = "X-MFA-Verified"
)

// RequesterMiddleware resolves the X-User-Id header into a full requester
// snapshot (role, organization, current team) on every request. Resolving per
// request rather than per session is what makes a team move or role change
// take effect on the user's next call.
//
// Admin requesters must additionally carry "X-MFA-Verified: true"; an admin
// request without it is rejected before any handler runs.
//
// Error handling:
//   - Missing or malformed X-User-Id header → 401 Unauthorized
//   - Unknown user → 401 Unauthorized
//   - Admin without the MFA marker → 401 Unauthorized
func RequesterMiddleware(
	identityUC identityUseCase.IdentityUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(HeaderUserID)
		if header == "" {
			logger.Debug("requester resolution failed: missing user id header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(header)
		if err != nil {
			logger.Debug("requester resolution failed: malformed user id header",
				slog.String("header", header))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		requester, err := identityUC.ResolveRequester(c.Request.Context(), userID)
		if err != nil {
			logger.Debug("requester resolution failed",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
			// An unknown user is an authentication failure, not a 404.
			if apperrors.Is(err, apperrors.ErrNotFound) {
				err = apperrors.ErrUnauthorized
			}
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if requester.IsAdmin() && !mfaVerified(c.GetHeader(HeaderMFAVerified)) {
			logger.Debug("requester resolution failed: admin without mfa marker",
				slog.String("user_id", userID.String()))
			httputil.HandleErrorGin(c, identityDomain.ErrMFARequired, logger)
			c.Abort()
			return
		}

		ctx := WithRequester(c.Request.Context(), requester)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// mfaVerified reports whether the header value asserts a passed MFA gate.
func mfaVerified(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}
