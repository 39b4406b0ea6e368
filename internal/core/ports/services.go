package ports

import (
	"context"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

// ListIncidentsFilter carries the dashboard filters. Empty fields match all.
type ListIncidentsFilter struct {
	Status string
	Search string // partial match on sequence number, location or driver name
}

// RecordService defines the incident use cases.
type RecordService interface {
	// Create assigns id, sequence number and timestamps, then stores the record.
	Create(ctx context.Context, actor domain.Role, status domain.IncidentStatus, payload domain.IncidentPayload) (*domain.IncidentRecord, error)
	// Save replaces the record under record.ID. Immutable fields (sequence
	// number, created at) are kept from the stored copy.
	Save(ctx context.Context, actor domain.Role, record domain.IncidentRecord) (*domain.IncidentRecord, error)
	Get(ctx context.Context, id string) (*domain.IncidentRecord, error)
	List(ctx context.Context, filter ListIncidentsFilter) []domain.IncidentRecord
	Remove(ctx context.Context, id string) error
	Export(ctx context.Context) (*Snapshot, error)
}

// AccountService defines the operator administration use cases.
type AccountService interface {
	List(ctx context.Context) []domain.Account
	Get(ctx context.Context, id string) (*domain.Account, error)
	Save(ctx context.Context, account domain.Account) (*domain.Account, error)
	Remove(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*domain.Account, error)
	EnsureBaseline(ctx context.Context) error
}

// SessionService tracks the active operator across restarts.
type SessionService interface {
	Resume(ctx context.Context) (*domain.Account, error)
	Login(ctx context.Context, username string, portal domain.Role) (*domain.Account, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*domain.Session, error)
}

// ConnectionResult is the outcome of a remote connection test.
type ConnectionResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// SyncService exposes the configuration side of the sync bridge.
type SyncService interface {
	TestConnection(ctx context.Context, settings domain.RemoteSettings) ConnectionResult
	// Configure persists the settings only when the connection test passes.
	Configure(ctx context.Context, settings domain.RemoteSettings) (ConnectionResult, error)
	Settings() domain.RemoteSettings
	Probe(ctx context.Context) error
}
