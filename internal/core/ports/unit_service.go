package ports

import (
	"context"

	"github.com/aegis-sentinel/backend/internal/core/domain"
)

// CreateUnitInput carries the data for a new response unit.
type CreateUnitInput struct {
	Name     string
	Location string
	Status   string
}

// UnitService defines use-case operations for response units.
type UnitService interface {
	List(ctx context.Context) ([]*domain.Unit, error)
	Create(ctx context.Context, in CreateUnitInput) (*domain.Unit, error)
	Delete(ctx context.Context, id string) error
}
