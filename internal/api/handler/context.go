package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aegis-sentinel/backend/internal/api/middleware"
	"github.com/aegis-sentinel/backend/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware.
// Presence proves the middleware ran; a handler reached without it is a
// routing bug, rejected with 401.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*domain.Claims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No token")
	}
	return claims, nil
}

// requireAdmin is the per-endpoint role guard. Role checks are deliberately
// not centralized in the gate: each admin-only handler calls this itself.
func requireAdmin(c echo.Context) (*domain.Claims, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return nil, err
	}
	if claims.Role != domain.RoleAdmin {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	}
	return claims, nil
}
