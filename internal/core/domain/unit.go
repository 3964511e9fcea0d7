package domain

// UnitStatusActive is the default status of a newly created response unit.
// There is no unit status-transition endpoint; the field is stored as given.
const UnitStatusActive = "active"

// Unit is a response unit managed by administrators.
type Unit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status"`
}
