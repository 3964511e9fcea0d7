package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aegis-sentinel/backend/internal/core/domain"
	"github.com/aegis-sentinel/backend/internal/core/ports"
)

// UnitService implements response-unit management.
type UnitService struct {
	repo   ports.UnitRepository
	logger zerolog.Logger
}

func NewUnitService(repo ports.UnitRepository, logger zerolog.Logger) *UnitService {
	return &UnitService{repo: repo, logger: logger}
}

func (s *UnitService) List(ctx context.Context) ([]*domain.Unit, error) {
	return s.repo.List(ctx)
}

func (s *UnitService) Create(ctx context.Context, in ports.CreateUnitInput) (*domain.Unit, error) {
	if in.Name == "" {
		return nil, domain.ErrMissingFields
	}

	status := in.Status
	if status == "" {
		status = domain.UnitStatusActive
	}

	unit := &domain.Unit{
		Name:     in.Name,
		Location: in.Location,
		Status:   status,
	}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, err
	}

	s.logger.Info().Str("unit_id", unit.ID).Str("name", unit.Name).Msg("unit created")
	return unit, nil
}

// Delete removes the unit by id, succeeding regardless of prior existence.
func (s *UnitService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("unit_id", id).Msg("unit deleted")
	return nil
}
