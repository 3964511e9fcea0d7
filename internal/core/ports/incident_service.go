package ports

import (
	"context"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

// CreateIncidentInput carries the data for a user-submitted incident report.
type CreateIncidentInput struct {
	Title       string
	Description string
	Location    string
	ReporterID  string
}

// DetectionInput carries the data for the automated-detection path. The
// attached image, when present, is stored by the upload collaborator before
// the service is invoked and is not processed here.
type DetectionInput struct {
	Caption    string
	Location   string
	Latitude   string
	Longitude  string
	Severity   string
	ReporterID string
}

// AnalyticsResult is returned by Analytics.
type AnalyticsResult struct {
	// Last7 counts incidents created within the trailing 7x24h window,
	// computed at request time.
	Last7 int64 `json:"last7"`
	// TopSector is the location with the highest all-time incident count, or
	// "N/A" when there are no incidents.
	TopSector string `json:"topSector"`
}

// IncidentService defines use-case operations for incident reports.
type IncidentService interface {
	List(ctx context.Context) ([]domain.ResolvedIncident, error)
	Create(ctx context.Context, in CreateIncidentInput) (*domain.ResolvedIncident, error)
	// UpdateStatus sets the status when non-empty, leaves it unchanged
	// otherwise, and returns the record with the reporter resolved to name
	// only (lighter projection than Create/List).
	UpdateStatus(ctx context.Context, id, status string) (*domain.ResolvedIncident, error)
	// Delete is idempotent: deleting a missing id succeeds.
	Delete(ctx context.Context, id string) error
	CreateDetection(ctx context.Context, in DetectionInput) (*domain.ResolvedIncident, error)
	Analytics(ctx context.Context) (*AnalyticsResult, error)
}
