package domain

import (
	"errors"
	"time"
)

const (
	// StatusReported is the initial status of every incident. Updates may set
	// any value; the status vocabulary is not constrained beyond the default.
	StatusReported = "reported"

	SeverityLow    = "low"
	SeverityMedium = "medium"
)

var ErrIncidentNotFound = errors.New("incident not found")

// Incident is a report submitted by a user or by the automated-detection path.
// Reporter and CreatedAt are set once at creation and never change.
type Incident struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	Severity    string    `json:"severity"`
	ReporterID  string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Reporter is the resolved view of the user who filed an incident. Email and
// Role are empty in the lightweight projection used after a status update.
type Reporter struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ResolvedIncident is an incident with its reporter reference replaced by a
// subset of the user's fields.
type ResolvedIncident struct {
	Incident
	Reporter Reporter `json:"reporter"`
}

// Event names pushed to realtime subscribers on incident mutations.
const (
	EventIncidentCreated = "incident:created"
	EventIncidentUpdated = "incident:updated"
	EventIncidentDeleted = "incident:deleted"
)
