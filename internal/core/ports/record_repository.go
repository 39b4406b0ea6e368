package ports

import (
	"context"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

// Snapshot is a downloadable backup of the full record collection.
type Snapshot struct {
	Name string
	Data []byte
}

// RecordRepository persists incident records on the device.
type RecordRepository interface {
	// Put inserts or replaces the record, stamping UpdatedAt. The stored copy
	// is returned. Failures are *domain.PersistenceError.
	Put(ctx context.Context, record domain.IncidentRecord) (*domain.IncidentRecord, error)
	// GetAll never fails: unreadable storage yields an empty slice.
	GetAll(ctx context.Context) []domain.IncidentRecord
	Get(ctx context.Context, id string) (*domain.IncidentRecord, error)
	// Remove is a no-op when id is absent.
	Remove(ctx context.Context, id string) error
	ExportSnapshot(ctx context.Context) (*Snapshot, error)
}
