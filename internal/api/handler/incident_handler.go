package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aegis-sentinel/backend/internal/api/metrics"
	"github.com/aegis-sentinel/backend/internal/core/ports"
)

// IncidentHandler handles HTTP requests for incident reports.
type IncidentHandler struct {
	service ports.IncidentService
}

func NewIncidentHandler(service ports.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

type createIncidentRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location"`
}

type updateIncidentRequest struct {
	Status string `json:"status"`
}

type ackResponse struct {
	OK bool `json:"ok"`
}

// List returns all incidents newest-first with reporters fully resolved.
//
// @Summary      List incidents
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ResolvedIncident
// @Failure      401  {object}  map[string]string
// @Router       /incidents [get]
func (h *IncidentHandler) List(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	incidents, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, incidents)
}

// Create submits a new incident report and broadcasts incident:created.
//
// @Summary      Create an incident
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIncidentRequest  true  "Incident details"
// @Success      200   {object}  domain.ResolvedIncident
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /incidents [post]
func (h *IncidentHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createIncidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	inc, err := h.service.Create(c.Request().Context(), ports.CreateIncidentInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ReporterID:  claims.ID,
	})
	if err != nil {
		return err
	}

	metrics.IncidentsCreatedTotal.WithLabelValues(inc.Severity, "user").Inc()
	return c.JSON(http.StatusOK, inc)
}

// Update sets the incident status and broadcasts incident:updated. The
// response resolves the reporter to name only.
//
// @Summary      Update incident status
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Incident id"
// @Param        body  body      updateIncidentRequest  true  "New status"
// @Success      200   {object}  domain.ResolvedIncident
// @Failure      404   {object}  map[string]string
// @Router       /incidents/{id} [patch]
func (h *IncidentHandler) Update(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	var req updateIncidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	inc, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inc)
}

// Delete removes an incident (admin only) and broadcasts incident:deleted.
// Idempotent: a repeat delete still acknowledges.
//
// @Summary      Delete an incident
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Incident id"
// @Success      200  {object}  ackResponse
// @Failure      403  {object}  map[string]string
// @Router       /incidents/{id} [delete]
func (h *IncidentHandler) Delete(c echo.Context) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ackResponse{OK: true})
}
