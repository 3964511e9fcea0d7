package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aegis-sentinel/backend/internal/core/ports"
)

// UnitHandler handles HTTP requests for response units.
type UnitHandler struct {
	service ports.UnitService
}

func NewUnitHandler(service ports.UnitService) *UnitHandler {
	return &UnitHandler{service: service}
}

type createUnitRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

// List returns all units sorted by name.
//
// @Summary      List units
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Unit
// @Failure      401  {object}  map[string]string
// @Router       /units [get]
func (h *UnitHandler) List(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	units, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, units)
}

// Create adds a response unit. Admin only.
//
// @Summary      Create a unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUnitRequest  true  "Unit details"
// @Success      200   {object}  domain.Unit
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /units [post]
func (h *UnitHandler) Create(c echo.Context) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	var req createUnitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	unit, err := h.service.Create(c.Request().Context(), ports.CreateUnitInput{
		Name:     req.Name,
		Location: req.Location,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unit)
}

// Delete removes a unit. Admin only; acknowledges regardless of prior
// existence.
//
// @Summary      Delete a unit
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Unit id"
// @Success      200  {object}  ackResponse
// @Failure      403  {object}  map[string]string
// @Router       /units/{id} [delete]
func (h *UnitHandler) Delete(c echo.Context) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ackResponse{OK: true})
}
