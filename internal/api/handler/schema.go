package handler

import (
	"time"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Portal   string `json:"portal"   validate:"required,role"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
	Session *domain.Session `json:"session"`
}

// --- Incidents ---

type incidentRequest struct {
	Status  string                 `json:"status"  validate:"omitempty,incident_status"`
	Payload domain.IncidentPayload `json:"payload"`
}

type incidentListResponse struct {
	Items []domain.IncidentRecord `json:"items"`
	Total int                     `json:"total"`
}

// --- Accounts ---

type accountRequest struct {
	FullName string `json:"full_name" validate:"required,max=128"`
	Username string `json:"username"  validate:"required,max=64"`
	Role     string `json:"role"      validate:"required,role"`
	State    string `json:"state"     validate:"max=64"`
	Locality string `json:"locality"  validate:"max=64"`
	IsActive *bool  `json:"is_active"`
}

type accountListResponse struct {
	Items []domain.Account `json:"items"`
	Total int              `json:"total"`
}

// --- Sync ---

type remoteSettingsRequest struct {
	URL       string `json:"url"        validate:"required,url"`
	AccessKey string `json:"access_key" validate:"required"`
}

type remoteSettingsResponse struct {
	URL        string `json:"url"`
	Configured bool   `json:"configured"`
}

// --- Health ---

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	CheckedAt    time.Time                   `json:"checked_at"`
}
