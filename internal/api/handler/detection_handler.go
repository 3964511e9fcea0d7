package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aegis-sentinel/backend/internal/api/metrics"
	"github.com/aegis-sentinel/backend/internal/core/ports"
)

// UploadStore accepts the optional image attached to a detection. The image
// is stored and otherwise ignored by this service.
type UploadStore interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// DetectionHandler handles the automated-detection ingest path.
type DetectionHandler struct {
	service ports.IncidentService
	uploads UploadStore
	logger  zerolog.Logger
}

func NewDetectionHandler(service ports.IncidentService, uploads UploadStore, logger zerolog.Logger) *DetectionHandler {
	return &DetectionHandler{service: service, uploads: uploads, logger: logger}
}

// Simulate creates an incident from an automated detection. Accepts
// multipart form data: an optional image, an optional caption used as the
// description, a location (or a latitude/longitude pair concatenated into
// one), and a severity defaulting to medium.
//
// @Summary      Ingest an automated detection
// @Tags         detection
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image     formData  file    false  "Detection snapshot"
// @Param        caption   formData  string  false  "Description override"
// @Param        location  formData  string  false  "Free-text location"
// @Param        latitude  formData  string  false  "Latitude (paired with longitude)"
// @Param        longitude formData  string  false  "Longitude (paired with latitude)"
// @Param        severity  formData  string  false  "Severity, defaults to medium"
// @Success      200  {object}  domain.ResolvedIncident
// @Failure      401  {object}  map[string]string
// @Router       /ai/simulate [post]
func (h *DetectionHandler) Simulate(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		if path, err := h.uploads.Save(fh); err != nil {
			h.logger.Warn().Err(err).Str("filename", fh.Filename).Msg("detection image not stored")
		} else {
			h.logger.Debug().Str("path", path).Msg("detection image stored")
		}
	}

	inc, err := h.service.CreateDetection(c.Request().Context(), ports.DetectionInput{
		Caption:    c.FormValue("caption"),
		Location:   c.FormValue("location"),
		Latitude:   c.FormValue("latitude"),
		Longitude:  c.FormValue("longitude"),
		Severity:   c.FormValue("severity"),
		ReporterID: claims.ID,
	})
	if err != nil {
		return err
	}

	metrics.IncidentsCreatedTotal.WithLabelValues(inc.Severity, "ai").Inc()
	return c.JSON(http.StatusOK, inc)
}
