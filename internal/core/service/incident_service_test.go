package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aegis-sentinel/backend/internal/core/domain"
	"github.com/aegis-sentinel/backend/internal/core/ports"
)

// fakeIncidentRepo is an in-memory ports.IncidentRepository.
type fakeIncidentRepo struct {
	incidents []*domain.Incident
	nextID    int
}

func (r *fakeIncidentRepo) Create(ctx context.Context, inc *domain.Incident) error {
	r.nextID++
	inc.ID = fmt.Sprintf("i%d", r.nextID)
	stored := *inc
	r.incidents = append(r.incidents, &stored)
	return nil
}

func (r *fakeIncidentRepo) FindByID(ctx context.Context, id string) (*domain.Incident, error) {
	for _, inc := range r.incidents {
		if inc.ID == id {
			cp := *inc
			return &cp, nil
		}
	}
	return nil, domain.ErrIncidentNotFound
}

func (r *fakeIncidentRepo) List(ctx context.Context) ([]*domain.Incident, error) {
	out := make([]*domain.Incident, len(r.incidents))
	for i := range r.incidents {
		// newest first
		cp := *r.incidents[len(r.incidents)-1-i]
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeIncidentRepo) SetStatus(ctx context.Context, id, status string) error {
	for _, inc := range r.incidents {
		if inc.ID == id {
			inc.Status = status
			return nil
		}
	}
	return nil
}

func (r *fakeIncidentRepo) Delete(ctx context.Context, id string) error {
	for i, inc := range r.incidents {
		if inc.ID == id {
			r.incidents = append(r.incidents[:i], r.incidents[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeIncidentRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, inc := range r.incidents {
		if !inc.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeIncidentRepo) TopLocation(ctx context.Context) (string, int64, error) {
	counts := make(map[string]int64)
	for _, inc := range r.incidents {
		counts[inc.Location]++
	}
	var top string
	var best int64
	for loc, n := range counts {
		if n > best {
			top, best = loc, n
		}
	}
	return top, best, nil
}

// recordingBroadcaster captures fan-out calls.
type recordingBroadcaster struct {
	events   []string
	payloads []any
}

func (b *recordingBroadcaster) Broadcast(event string, payload any) {
	b.events = append(b.events, event)
	b.payloads = append(b.payloads, payload)
}

func newIncidentFixture() (*IncidentService, *fakeIncidentRepo, *fakeUserRepo, *recordingBroadcaster) {
	incidents := &fakeIncidentRepo{}
	users := &fakeUserRepo{}
	bc := &recordingBroadcaster{}
	svc := NewIncidentService(incidents, users, bc, zerolog.Nop())
	return svc, incidents, users, bc
}

func TestIncidentService_Create_DefaultsAndBroadcast(t *testing.T) {
	svc, _, users, bc := newIncidentFixture()
	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice", Email: "alice@example.com", Role: domain.RoleUser})

	inc, err := svc.Create(context.Background(), ports.CreateIncidentInput{
		Title:       "Fire",
		Description: "Smoke in sector 4",
		Location:    "sector-4",
		ReporterID:  reporter.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if inc.Status != domain.StatusReported || inc.Severity != domain.SeverityLow {
		t.Fatalf("unexpected defaults: status=%q severity=%q", inc.Status, inc.Severity)
	}
	if inc.Reporter.Name != "alice" || inc.Reporter.Email != "alice@example.com" || inc.Reporter.Role != domain.RoleUser {
		t.Fatalf("reporter not fully resolved: %+v", inc.Reporter)
	}
	if inc.CreatedAt.IsZero() {
		t.Fatalf("createdAt not set")
	}

	if len(bc.events) != 1 || bc.events[0] != domain.EventIncidentCreated {
		t.Fatalf("expected one incident:created broadcast, got %v", bc.events)
	}
	if payload, ok := bc.payloads[0].(*domain.ResolvedIncident); !ok || payload.ID != inc.ID {
		t.Fatalf("broadcast payload is not the resolved record: %+v", bc.payloads[0])
	}
}

func TestIncidentService_Create_MissingFields(t *testing.T) {
	svc, _, _, bc := newIncidentFixture()

	if _, err := svc.Create(context.Background(), ports.CreateIncidentInput{Title: "x"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateIncidentInput{Description: "x"}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if len(bc.events) != 0 {
		t.Fatalf("nothing should have been broadcast, got %v", bc.events)
	}
}

func TestIncidentService_List_ResolvesReporters(t *testing.T) {
	svc, _, users, _ := newIncidentFixture()
	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice", Email: "alice@example.com", Role: domain.RoleAdmin})

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), ports.CreateIncidentInput{
			Title:       fmt.Sprintf("incident %d", i),
			Description: "d",
			ReporterID:  reporter.ID,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(list))
	}
	// newest first
	if list[0].Title != "incident 1" {
		t.Fatalf("expected newest first, got %q", list[0].Title)
	}
	for _, inc := range list {
		if inc.Reporter.Name != "alice" || inc.Reporter.Email == "" || inc.Reporter.Role == "" {
			t.Fatalf("reporter not fully resolved: %+v", inc.Reporter)
		}
	}
}

func TestIncidentService_UpdateStatus(t *testing.T) {
	svc, _, users, bc := newIncidentFixture()
	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice", Email: "alice@example.com", Role: domain.RoleUser})

	created, err := svc.Create(context.Background(), ports.CreateIncidentInput{
		Title:       "Fire",
		Description: "Smoke",
		ReporterID:  reporter.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "resolved")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != "resolved" {
		t.Fatalf("expected status resolved, got %q", updated.Status)
	}
	if updated.Title != "Fire" || updated.Description != "Smoke" || updated.Severity != domain.SeverityLow {
		t.Fatalf("update must not touch other fields: %+v", updated)
	}
	// lightweight projection: name only
	if updated.Reporter.Name != "alice" || updated.Reporter.Email != "" || updated.Reporter.Role != "" {
		t.Fatalf("expected name-only reporter, got %+v", updated.Reporter)
	}

	if bc.events[len(bc.events)-1] != domain.EventIncidentUpdated {
		t.Fatalf("expected incident:updated broadcast, got %v", bc.events)
	}
}

func TestIncidentService_UpdateStatus_EmptyKeepsStatus(t *testing.T) {
	svc, _, users, _ := newIncidentFixture()
	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice"})

	created, _ := svc.Create(context.Background(), ports.CreateIncidentInput{
		Title: "Fire", Description: "Smoke", ReporterID: reporter.ID,
	})

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusReported {
		t.Fatalf("empty status must leave the value unchanged, got %q", updated.Status)
	}
}

func TestIncidentService_UpdateStatus_NotFound(t *testing.T) {
	svc, _, _, _ := newIncidentFixture()

	if _, err := svc.UpdateStatus(context.Background(), "missing", "resolved"); !errors.Is(err, domain.ErrIncidentNotFound) {
		t.Fatalf("expected ErrIncidentNotFound, got %v", err)
	}
}

func TestIncidentService_Delete_Idempotent(t *testing.T) {
	svc, repo, users, bc := newIncidentFixture()
	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice"})

	created, _ := svc.Create(context.Background(), ports.CreateIncidentInput{
		Title: "Fire", Description: "Smoke", ReporterID: reporter.ID,
	})

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.incidents) != 0 {
		t.Fatalf("incident not deleted")
	}
	// repeat delete still succeeds
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	last := bc.payloads[len(bc.payloads)-1]
	if m, ok := last.(map[string]string); !ok || m["id"] != created.ID {
		t.Fatalf("deleted broadcast must carry just the id, got %+v", last)
	}
}

func TestIncidentService_CreateDetection_Defaults(t *testing.T) {
	svc, _, users, bc := newIncidentFixture()
	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice", Email: "a@example.com", Role: domain.RoleUser})

	inc, err := svc.CreateDetection(context.Background(), ports.DetectionInput{
		Latitude:   "31.456",
		Longitude:  "74.123",
		ReporterID: reporter.ID,
	})
	if err != nil {
		t.Fatalf("detection: %v", err)
	}

	if inc.Title != "AI Detection" {
		t.Fatalf("unexpected title: %q", inc.Title)
	}
	if inc.Description != "Automated detection triggered by AI" {
		t.Fatalf("unexpected description: %q", inc.Description)
	}
	if inc.Location != "31.456,74.123" {
		t.Fatalf("expected lat,lng concatenation, got %q", inc.Location)
	}
	if inc.Severity != domain.SeverityMedium {
		t.Fatalf("expected medium severity, got %q", inc.Severity)
	}
	if bc.events[0] != domain.EventIncidentCreated {
		t.Fatalf("expected incident:created broadcast, got %v", bc.events)
	}
}

func TestIncidentService_CreateDetection_ExplicitValues(t *testing.T) {
	svc, _, users, _ := newIncidentFixture()
	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice"})

	inc, err := svc.CreateDetection(context.Background(), ports.DetectionInput{
		Caption:    "Person detected at gate",
		Location:   "gate-3",
		Latitude:   "1",
		Longitude:  "2",
		Severity:   "high",
		ReporterID: reporter.ID,
	})
	if err != nil {
		t.Fatalf("detection: %v", err)
	}

	if inc.Description != "Person detected at gate" || inc.Severity != "high" {
		t.Fatalf("explicit values not honored: %+v", inc)
	}
	// free-text location wins over the coordinate pair
	if inc.Location != "gate-3" {
		t.Fatalf("expected gate-3, got %q", inc.Location)
	}
}

func TestIncidentService_Analytics(t *testing.T) {
	svc, repo, users, _ := newIncidentFixture()

	// empty store
	result, err := svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if result.Last7 != 0 || result.TopSector != "N/A" {
		t.Fatalf("expected {0, N/A}, got %+v", result)
	}

	reporter, _ := users.Create(context.Background(), &domain.User{Name: "alice"})
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), ports.CreateIncidentInput{
			Title: "Fire", Description: "Smoke", Location: "sector-4", ReporterID: reporter.ID,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// one old incident outside the window, at a different location
	repo.incidents = append(repo.incidents, &domain.Incident{
		ID: "old", Location: "sector-9", CreatedAt: time.Now().UTC().Add(-8 * 24 * time.Hour),
	})

	result, err = svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if result.Last7 != 3 {
		t.Fatalf("expected last7=3, got %d", result.Last7)
	}
	if result.TopSector != "sector-4" {
		t.Fatalf("expected topSector=sector-4, got %q", result.TopSector)
	}
}
