package ports

import (
	"context"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

// UnitRepository defines persistence operations for response units.
type UnitRepository interface {
	Create(ctx context.Context, unit *domain.Unit) error
	// List returns all units sorted by name ascending.
	List(ctx context.Context) ([]*domain.Unit, error)
	// Delete removes the unit by id. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id string) error
}
