package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aegis-sentinel/backend/internal/core/ports"
)

// AnalyticsHandler serves aggregate incident statistics.
type AnalyticsHandler struct {
	service ports.IncidentService
}

func NewAnalyticsHandler(service ports.IncidentService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Get returns the trailing 7-day incident count and the all-time top
// location ("N/A" when there are no incidents).
//
// @Summary      Incident analytics
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AnalyticsResult
// @Failure      401  {object}  map[string]string
// @Router       /analytics [get]
func (h *AnalyticsHandler) Get(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	result, err := h.service.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
