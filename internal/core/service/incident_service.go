package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aegis-sentinel/backend/internal/core/domain"
	"github.com/aegis-sentinel/backend/internal/core/ports"
)

const (
	detectionTitle       = "AI Detection"
	detectionDescription = "Automated detection triggered by AI"
	analyticsWindow      = 7 * 24 * time.Hour
)

// IncidentService implements the incident lifecycle: role-gated CRUD kept
// consistent with realtime fan-out to connected subscribers.
type IncidentService struct {
	incidents   ports.IncidentRepository
	users       ports.UserRepository
	broadcaster ports.Broadcaster
	logger      zerolog.Logger
}

func NewIncidentService(
	incidents ports.IncidentRepository,
	users ports.UserRepository,
	broadcaster ports.Broadcaster,
	logger zerolog.Logger,
) *IncidentService {
	return &IncidentService{
		incidents:   incidents,
		users:       users,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// List returns all incidents newest-first, each with its reporter resolved
// to {name, email, role}.
func (s *IncidentService) List(ctx context.Context) ([]domain.ResolvedIncident, error) {
	incidents, err := s.incidents.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(incidents))
	seen := make(map[string]struct{}, len(incidents))
	for _, inc := range incidents {
		if _, ok := seen[inc.ReporterID]; !ok && inc.ReporterID != "" {
			seen[inc.ReporterID] = struct{}{}
			ids = append(ids, inc.ReporterID)
		}
	}

	reporters, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResolvedIncident, len(incidents))
	for i, inc := range incidents {
		out[i] = domain.ResolvedIncident{Incident: *inc}
		if u, ok := reporters[inc.ReporterID]; ok {
			out[i].Reporter = domain.Reporter{Name: u.Name, Email: u.Email, Role: u.Role}
		}
	}
	return out, nil
}

// Create persists a user-submitted report and broadcasts incident:created
// with the fully resolved record.
func (s *IncidentService) Create(ctx context.Context, in ports.CreateIncidentInput) (*domain.ResolvedIncident, error) {
	if in.Title == "" || in.Description == "" {
		return nil, domain.ErrMissingFields
	}

	inc := &domain.Incident{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Status:      domain.StatusReported,
		Severity:    domain.SeverityLow,
		ReporterID:  in.ReporterID,
		CreatedAt:   time.Now().UTC(),
	}
	return s.persistAndBroadcast(ctx, inc)
}

// CreateDetection persists an automated-detection report. The title is
// fixed, the description falls back to a canned caption, and a latitude and
// longitude pair is concatenated into a single location string.
func (s *IncidentService) CreateDetection(ctx context.Context, in ports.DetectionInput) (*domain.ResolvedIncident, error) {
	description := in.Caption
	if description == "" {
		description = detectionDescription
	}

	location := in.Location
	if location == "" && in.Latitude != "" && in.Longitude != "" {
		location = in.Latitude + "," + in.Longitude
	}

	severity := in.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}

	inc := &domain.Incident{
		Title:       detectionTitle,
		Description: description,
		Location:    location,
		Status:      domain.StatusReported,
		Severity:    severity,
		ReporterID:  in.ReporterID,
		CreatedAt:   time.Now().UTC(),
	}
	return s.persistAndBroadcast(ctx, inc)
}

func (s *IncidentService) persistAndBroadcast(ctx context.Context, inc *domain.Incident) (*domain.ResolvedIncident, error) {
	if err := s.incidents.Create(ctx, inc); err != nil {
		s.logger.Error().Err(err).Msg("failed to create incident")
		return nil, err
	}

	resolved := s.resolve(ctx, inc, false)

	// Persist and broadcast are independent steps: a crash in between leaves
	// a stored incident with no notification, reconciled by List.
	s.broadcaster.Broadcast(domain.EventIncidentCreated, resolved)

	s.logger.Info().
		Str("incident_id", inc.ID).
		Str("severity", inc.Severity).
		Str("reporter_id", inc.ReporterID).
		Msg("incident created")

	return resolved, nil
}

// UpdateStatus sets the status when non-empty and broadcasts
// incident:updated with the reporter resolved to name only.
func (s *IncidentService) UpdateStatus(ctx context.Context, id, status string) (*domain.ResolvedIncident, error) {
	inc, err := s.incidents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status != "" {
		inc.Status = status
	}
	if err := s.incidents.SetStatus(ctx, id, inc.Status); err != nil {
		return nil, err
	}

	resolved := s.resolve(ctx, inc, true)
	s.broadcaster.Broadcast(domain.EventIncidentUpdated, resolved)

	s.logger.Info().
		Str("incident_id", id).
		Str("status", inc.Status).
		Msg("incident updated")

	return resolved, nil
}

// Delete removes the incident and broadcasts incident:deleted with just the
// id. Deleting a missing id is a no-op and still broadcasts.
func (s *IncidentService) Delete(ctx context.Context, id string) error {
	if err := s.incidents.Delete(ctx, id); err != nil {
		return err
	}

	s.broadcaster.Broadcast(domain.EventIncidentDeleted, map[string]string{"id": id})

	s.logger.Info().Str("incident_id", id).Msg("incident deleted")
	return nil
}

// Analytics computes the trailing 7-day incident count and the all-time top
// location. The window cutoff is computed at request time, never cached.
func (s *IncidentService) Analytics(ctx context.Context) (*ports.AnalyticsResult, error) {
	last7, err := s.incidents.CountCreatedSince(ctx, time.Now().UTC().Add(-analyticsWindow))
	if err != nil {
		return nil, err
	}

	top, n, err := s.incidents.TopLocation(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		top = "N/A"
	}

	return &ports.AnalyticsResult{Last7: last7, TopSector: top}, nil
}

// resolve replaces the reporter reference with user fields. A reporter that
// cannot be found leaves the zero Reporter, mirroring a dangling reference
// in the store.
func (s *IncidentService) resolve(ctx context.Context, inc *domain.Incident, nameOnly bool) *domain.ResolvedIncident {
	resolved := &domain.ResolvedIncident{Incident: *inc}

	u, err := s.users.FindByID(ctx, inc.ReporterID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn().Err(err).Str("reporter_id", inc.ReporterID).Msg("reporter lookup failed")
		}
		return resolved
	}

	if nameOnly {
		resolved.Reporter = domain.Reporter{Name: u.Name}
	} else {
		resolved.Reporter = domain.Reporter{Name: u.Name, Email: u.Email, Role: u.Role}
	}
	return resolved
}
