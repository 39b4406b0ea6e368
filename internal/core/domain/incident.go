package domain

import (
	"strings"
	"time"
)

// IncidentStatus represents the workflow state of an incident report.
type IncidentStatus string

const (
	StatusDraft              IncidentStatus = "draft"
	StatusSigned             IncidentStatus = "signed"
	StatusPendingApproval    IncidentStatus = "pending_approval"
	StatusApproved           IncidentStatus = "approved"
	StatusUnderInvestigation IncidentStatus = "under_investigation"
	StatusInvestigated       IncidentStatus = "investigated"
	StatusClosed             IncidentStatus = "closed"
)

// IncidentStatuses lists every valid status in workflow order.
var IncidentStatuses = []IncidentStatus{
	StatusDraft,
	StatusSigned,
	StatusPendingApproval,
	StatusApproved,
	StatusUnderInvestigation,
	StatusInvestigated,
	StatusClosed,
}

// Valid reports whether s belongs to the closed status set.
func (s IncidentStatus) Valid() bool {
	for _, st := range IncidentStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is where the incident happened.
type Location struct {
	State       string      `json:"state"`
	LocalArea   string      `json:"local_area"`
	Description string      `json:"description"`
	GPS         Coordinates `json:"gps"`
}

// Circumstances describes when and how the incident happened.
type Circumstances struct {
	Date             string `json:"date"`
	Time             string `json:"time"`
	IncidentType     string `json:"incident_type"`
	Cause            string `json:"cause"`
	RoadCondition    string `json:"road_condition"`
	WeatherCondition string `json:"weather_condition"`
	Description      string `json:"description"`
}

// Vehicle is one vehicle involved in the incident.
type Vehicle struct {
	ID               string `json:"id"`
	PlateNumber      string `json:"plate_number"`
	Type             string `json:"type"`
	Color            string `json:"color"`
	LicenseAuthority string `json:"license_authority"`
	Damages          string `json:"damages"`
}

// Driver holds the details of the driver held responsible at the scene.
type Driver struct {
	Name           string `json:"name"`
	LicenseNumber  string `json:"license_number"`
	LicenseType    string `json:"license_type"`
	IssueAuthority string `json:"issue_authority"`
	Condition      string `json:"condition"`
}

// Victim is one injured party.
type Victim struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Age                  string `json:"age"`
	InjuryType           string `json:"injury_type"`
	TransportDestination string `json:"transport_destination"`
}

// OfficerSection is filled in by the reporting officer.
type OfficerSection struct {
	Name       string `json:"name"`
	MilitaryID string `json:"military_id"`
	Unit       string `json:"unit"`
	Signature  string `json:"signature,omitempty"`
	Date       string `json:"date"`
}

// SupervisorSection is filled in by the approving supervisor.
type SupervisorSection struct {
	Name         string `json:"name"`
	Notes        string `json:"notes"`
	Signature    string `json:"signature,omitempty"`
	ApprovalDate string `json:"approval_date"`
}

// InvestigationSection is filled in by the investigator.
type InvestigationSection struct {
	InvestigatorName string `json:"investigator_name"`
	Summary          string `json:"summary"`
	Responsibility   string `json:"responsibility"`
	Signature        string `json:"signature,omitempty"`
	ClosingDate      string `json:"closing_date"`
}

// IncidentPayload is the full report body. The stores treat it as opaque.
type IncidentPayload struct {
	Location      Location             `json:"location"`
	Circumstances Circumstances        `json:"circumstances"`
	Vehicles      []Vehicle            `json:"vehicles"`
	Driver        Driver               `json:"driver"`
	Victims       []Victim             `json:"victims"`
	Officer       OfficerSection       `json:"officer"`
	Supervisor    SupervisorSection    `json:"supervisor"`
	Investigation InvestigationSection `json:"investigation"`
	Attachments   []string             `json:"attachments"`
}

// IncidentRecord is the aggregate persisted by the record store.
type IncidentRecord struct {
	ID             string          `json:"id"`
	SequenceNumber string          `json:"sequence_number"`
	Status         IncidentStatus  `json:"status"`
	Payload        IncidentPayload `json:"payload"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Matches reports whether the record contains term in its sequence number,
// location description or driver name. Comparison is case-insensitive.
func (r *IncidentRecord) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.SequenceNumber), term) ||
		strings.Contains(strings.ToLower(r.Payload.Location.Description), term) ||
		strings.Contains(strings.ToLower(r.Payload.Driver.Name), term)
}
