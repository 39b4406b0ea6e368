package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

// IncidentRow is the remote representation of a record: flat summary columns
// plus the complete record as an opaque payload.
type IncidentRow struct {
	ID                  string
	SequenceNumber      string
	Status              string
	State               string
	Locality            string
	LocationDescription string
	Latitude            float64
	Longitude           float64
	Data                json.RawMessage
	UpdatedAt           time.Time
}

// AccountRow is the remote representation of an account.
type AccountRow struct {
	ID        string
	FullName  string
	Username  string
	Role      string
	State     string
	Locality  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemoteStore is the shared mirror all devices push to. Every write is an
// upsert or delete keyed by id.
type RemoteStore interface {
	UpsertIncident(ctx context.Context, row IncidentRow) error
	UpsertAccount(ctx context.Context, row AccountRow) error
	DeleteAccount(ctx context.Context, id string) error
	// Probe performs a lightweight existence check of the incident table.
	Probe(ctx context.Context) error
	Close(ctx context.Context) error
}

// RemoteOpener connects to a remote store for the given settings.
type RemoteOpener interface {
	Open(ctx context.Context, settings domain.RemoteSettings) (RemoteStore, error)
}

// SyncOp is the remote operation a job performs.
type SyncOp string

const (
	SyncUpsert SyncOp = "upsert"
	SyncDelete SyncOp = "delete"
)

// SyncJob is one fire-and-forget mirror request spawned by a local mutation.
type SyncJob struct {
	Kind     domain.SyncKind
	Op       SyncOp
	ID       string
	Incident *domain.IncidentRecord
	Account  *domain.Account
}

// SyncQueue accepts jobs without ever blocking the caller.
type SyncQueue interface {
	// Enqueue reports false when the job was dropped.
	Enqueue(job SyncJob) bool
}

// Notifier emits the best-effort device signal after a successful save.
type Notifier interface {
	Notify(ctx context.Context, event string, id string) error
}

// Authorizer decides whether a role may put a record into a status.
type Authorizer interface {
	CanSetStatus(role domain.Role, status domain.IncidentStatus) (bool, error)
}
