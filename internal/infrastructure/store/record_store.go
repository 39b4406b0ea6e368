package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// RecordStore implements ports.RecordRepository.
type RecordStore struct {
	kv       ports.KV
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewRecordStore creates a RecordStore. notifier may be nil.
func NewRecordStore(kv ports.KV, notifier ports.Notifier, log zerolog.Logger) *RecordStore {
	return &RecordStore{kv: kv, notifier: notifier, log: log, now: utcNow}
}

// Put inserts or replaces the record under its id and stamps UpdatedAt.
func (s *RecordStore) Put(ctx context.Context, record domain.IncidentRecord) (*domain.IncidentRecord, error) {
	if strings.TrimSpace(record.ID) == "" {
		return nil, domain.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadForWrite[domain.IncidentRecord](ctx, s.kv, IncidentsKey, s.log)
	if err != nil {
		return nil, err
	}

	record.UpdatedAt = s.now()
	replaced := false
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	if err := save(ctx, s.kv, IncidentsKey, records); err != nil {
		s.log.Error().Err(err).Str("id", record.ID).Msg("incident not saved")
		return nil, err
	}

	s.signal(ctx, "incident_saved", record.ID)
	return &record, nil
}

// GetAll returns every stored record; unreadable storage yields none.
func (s *RecordStore) GetAll(ctx context.Context) []domain.IncidentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadOrEmpty[domain.IncidentRecord](ctx, s.kv, IncidentsKey, s.log)
}

func (s *RecordStore) Get(ctx context.Context, id string) (*domain.IncidentRecord, error) {
	for _, r := range s.GetAll(ctx) {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// Remove deletes the record if present. Absent ids are not an error.
func (s *RecordStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadForWrite[domain.IncidentRecord](ctx, s.kv, IncidentsKey, s.log)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return save(ctx, s.kv, IncidentsKey, kept)
}

// ExportSnapshot renders every record as indented JSON named after today's date.
func (s *RecordStore) ExportSnapshot(ctx context.Context) (*ports.Snapshot, error) {
	records := s.GetAll(ctx)
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	return &ports.Snapshot{
		Name: SnapshotName(s.now()),
		Data: data,
	}, nil
}

// SnapshotName returns the backup file name for the given day.
func SnapshotName(day time.Time) string {
	return fmt.Sprintf("ORNIK8_BACKUP_%s.json", day.Format("2006-01-02"))
}

func (s *RecordStore) signal(ctx context.Context, event, id string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, id); err != nil {
		s.log.Debug().Err(err).Str("event", event).Msg("device signal failed")
	}
}
