package ports

import (
	"context"
	"time"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

// IncidentRepository defines persistence operations for incident reports.
type IncidentRepository interface {
	// Create inserts the incident and fills in its generated ID.
	Create(ctx context.Context, inc *domain.Incident) error
	FindByID(ctx context.Context, id string) (*domain.Incident, error)
	// List returns all incidents sorted by creation time descending.
	List(ctx context.Context) ([]*domain.Incident, error)
	SetStatus(ctx context.Context, id, status string) error
	// Delete removes the incident by id. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id string) error
	// CountCreatedSince counts incidents with created_at >= since.
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	// TopLocation returns the location with the highest all-time incident
	// count. Ties resolve to whichever group the aggregation yields first.
	// Returns ("", 0, nil) when there are no incidents.
	TopLocation(ctx context.Context) (string, int64, error)
}
