package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/api/metrics"
	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// Sequencer allocates human-facing sequence numbers.
type Sequencer interface {
	Next(ctx context.Context) (string, error)
}

type recordService struct {
	repo  ports.RecordRepository
	seq   Sequencer
	authz ports.Authorizer
	sync  ports.SyncQueue
	log   zerolog.Logger
	now   func() time.Time
}

// NewRecordService returns a RecordService. sync may be nil, which disables
// mirroring.
func NewRecordService(
	repo ports.RecordRepository,
	seq Sequencer,
	authz ports.Authorizer,
	sync ports.SyncQueue,
	log zerolog.Logger,
) ports.RecordService {
	return &recordService{
		repo:  repo,
		seq:   seq,
		authz: authz,
		sync:  sync,
		log:   log,
		now:   time.Now,
	}
}

// Create builds a new record: fresh id, sequence number from the allocator,
// then a single store write.
func (s *recordService) Create(ctx context.Context, actor domain.Role, status domain.IncidentStatus, payload domain.IncidentPayload) (*domain.IncidentRecord, error) {
	if status == "" {
		status = domain.StatusDraft
	}
	if err := s.authorize(actor, status); err != nil {
		return nil, err
	}

	seq, err := s.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	record := domain.IncidentRecord{
		ID:             uuid.NewString(),
		SequenceNumber: seq,
		Status:         status,
		Payload:        payload,
		CreatedAt:      s.now().UTC(),
	}
	return s.put(ctx, record)
}

// Save replaces the stored record. An unknown id is stored as a new record,
// which is how reports created on another device arrive.
func (s *recordService) Save(ctx context.Context, actor domain.Role, record domain.IncidentRecord) (*domain.IncidentRecord, error) {
	if strings.TrimSpace(record.ID) == "" {
		return nil, domain.ErrMissingID
	}
	if record.Status == "" {
		record.Status = domain.StatusDraft
	}

	existing, err := s.repo.Get(ctx, record.ID)
	switch {
	case err == nil:
		record.SequenceNumber = existing.SequenceNumber
		record.CreatedAt = existing.CreatedAt
		if record.Status != existing.Status {
			if err := s.authorize(actor, record.Status); err != nil {
				return nil, err
			}
		} else if !record.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	default:
		if err := s.authorize(actor, record.Status); err != nil {
			return nil, err
		}
		if record.SequenceNumber == "" {
			seq, err := s.seq.Next(ctx)
			if err != nil {
				return nil, fmt.Errorf("save incident: %w", err)
			}
			record.SequenceNumber = seq
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = s.now().UTC()
		}
	}

	return s.put(ctx, record)
}

func (s *recordService) put(ctx context.Context, record domain.IncidentRecord) (*domain.IncidentRecord, error) {
	stored, err := s.repo.Put(ctx, record)
	if err != nil {
		metrics.RecordsSavedTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("id", record.ID).Msg("failed to save incident")
		return nil, err
	}
	metrics.RecordsSavedTotal.WithLabelValues("ok").Inc()

	s.log.Info().
		Str("id", stored.ID).
		Str("sequence_number", stored.SequenceNumber).
		Str("status", string(stored.Status)).
		Msg("incident saved")

	if s.sync != nil {
		mirror := *stored
		s.sync.Enqueue(ports.SyncJob{Kind: domain.SyncIncident, Op: ports.SyncUpsert, ID: stored.ID, Incident: &mirror})
	}
	return stored, nil
}

func (s *recordService) authorize(actor domain.Role, status domain.IncidentStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if s.authz == nil {
		return nil
	}
	ok, err := s.authz.CanSetStatus(actor, status)
	if err != nil {
		return fmt.Errorf("authorize status: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (%s -> %s)", domain.ErrForbiddenTransition, actor, status)
	}
	return nil
}

func (s *recordService) Get(ctx context.Context, id string) (*domain.IncidentRecord, error) {
	return s.repo.Get(ctx, id)
}

// List applies the dashboard filters and orders by most recently updated.
func (s *recordService) List(ctx context.Context, filter ports.ListIncidentsFilter) []domain.IncidentRecord {
	all := s.repo.GetAll(ctx)
	out := make([]domain.IncidentRecord, 0, len(all))
	for _, r := range all {
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if !r.Matches(filter.Search) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Remove deletes locally only; the remote mirror keeps its copy.
func (s *recordService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to remove incident")
		return err
	}
	s.log.Info().Str("id", id).Msg("incident removed")
	return nil
}

func (s *recordService) Export(ctx context.Context) (*ports.Snapshot, error) {
	return s.repo.ExportSnapshot(ctx)
}
