package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-cart/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils/response"
)

// requireClaims writes 401 and returns false when the request carries no
// verified identity.
func requireClaims(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*models.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthorized access attempt: missing user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}

// writeServiceError logs caller mistakes at warn and everything else at error.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	if appErr, ok := errors.IsAppError(err); ok && appErr.Code.IsClientError() {
		logger.Warn(msg, slog.String("code", string(appErr.Code)), slog.String("error", err.Error()))
	} else {
		logger.Error(msg, slog.Any("error", err))
	}

	response.Error(w, err)
}
