package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/api/metrics"
	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

const defaultRemoteTimeout = 10 * time.Second

var errNotConfigured = errors.New("remote address or access key missing")

// SyncBridge mirrors local mutations to the remote store. It never returns an
// error to the code that triggered a push: failures are logged and reported
// as false. There is no retry; the next mutation of the same id pushes the
// full current state again.
type SyncBridge struct {
	opener   ports.RemoteOpener
	settings ports.SettingsRepository
	timeout  time.Duration
	log      zerolog.Logger

	mu      sync.RWMutex
	current domain.RemoteSettings
	remote  ports.RemoteStore
}

// NewSyncBridge creates a bridge with no remote attached. Call Init to load
// the persisted settings.
func NewSyncBridge(opener ports.RemoteOpener, settings ports.SettingsRepository, timeout time.Duration, log zerolog.Logger) *SyncBridge {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &SyncBridge{opener: opener, settings: settings, timeout: timeout, log: log}
}

// Init loads the operator settings, falling back to defaults when none were
// saved. The connection itself is opened lazily by the first push, so an
// offline start costs nothing.
func (b *SyncBridge) Init(ctx context.Context, defaults domain.RemoteSettings) {
	s, err := b.settings.LoadRemote(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("remote settings unreadable, using defaults")
	}
	if !s.Configured() {
		s = defaults
	}

	b.mu.Lock()
	b.current = s
	b.mu.Unlock()

	if !s.Configured() {
		b.log.Info().Msg("remote sync disabled: no address or access key")
	}
}

// Settings returns the active remote settings.
func (b *SyncBridge) Settings() domain.RemoteSettings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Apply runs one queued job.
func (b *SyncBridge) Apply(ctx context.Context, job ports.SyncJob) bool {
	switch job.Op {
	case ports.SyncDelete:
		return b.DeleteRemote(ctx, job.Kind, job.ID)
	default:
		switch job.Kind {
		case domain.SyncIncident:
			return b.UpsertRemote(ctx, job.Kind, job.Incident)
		default:
			return b.UpsertRemote(ctx, job.Kind, job.Account)
		}
	}
}

// UpsertRemote translates value into the remote row for kind and upserts it
// by id.
func (b *SyncBridge) UpsertRemote(ctx context.Context, kind domain.SyncKind, value any) (ok bool) {
	id := valueID(value)
	defer b.guard("upsert", kind, &id, &ok)

	remote, err := b.client(ctx)
	if errors.Is(err, errNotConfigured) {
		metrics.SyncPushesTotal.WithLabelValues(string(kind), "upsert", "skipped").Inc()
		return false
	}
	if err != nil {
		return b.fail("upsert", kind, id, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	switch v := value.(type) {
	case *domain.IncidentRecord:
		if v == nil {
			return b.fail("upsert", kind, "", errors.New("nil incident"))
		}
		row, err := IncidentRowFrom(*v)
		if err != nil {
			return b.fail("upsert", kind, id, err)
		}
		err = remote.UpsertIncident(ctx, row)
		if err != nil {
			return b.fail("upsert", kind, id, err)
		}
	case *domain.Account:
		if v == nil {
			return b.fail("upsert", kind, "", errors.New("nil account"))
		}
		if err := remote.UpsertAccount(ctx, AccountRowFrom(*v)); err != nil {
			return b.fail("upsert", kind, id, err)
		}
	default:
		return b.fail("upsert", kind, "", fmt.Errorf("unsupported value %T", value))
	}

	metrics.SyncPushesTotal.WithLabelValues(string(kind), "upsert", "ok").Inc()
	b.log.Debug().Str("kind", string(kind)).Str("id", id).Msg("mirrored to remote")
	return true
}

// DeleteRemote removes the remote copy. Only accounts are deleted remotely;
// incident deletions stay local.
func (b *SyncBridge) DeleteRemote(ctx context.Context, kind domain.SyncKind, id string) (ok bool) {
	defer b.guard("delete", kind, &id, &ok)

	if kind != domain.SyncAccount {
		return false
	}
	remote, err := b.client(ctx)
	if errors.Is(err, errNotConfigured) {
		metrics.SyncPushesTotal.WithLabelValues(string(kind), "delete", "skipped").Inc()
		return false
	}
	if err != nil {
		return b.fail("delete", kind, id, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	if err := remote.DeleteAccount(ctx, id); err != nil {
		return b.fail("delete", kind, id, err)
	}
	metrics.SyncPushesTotal.WithLabelValues(string(kind), "delete", "ok").Inc()
	return true
}

// TestConnection opens a throwaway client for settings and probes it. It is
// the only place a sync failure reaches the operator.
func (b *SyncBridge) TestConnection(ctx context.Context, settings domain.RemoteSettings) ports.ConnectionResult {
	if !settings.Configured() {
		return ports.ConnectionResult{OK: false, Reason: "remote address and access key are both required"}
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	remote, err := b.opener.Open(ctx, settings)
	if err != nil {
		return b.probeFailure(err)
	}
	defer func() {
		if cerr := remote.Close(context.Background()); cerr != nil {
			b.log.Debug().Err(cerr).Msg("close probe client")
		}
	}()

	if err := remote.Probe(ctx); err != nil {
		return b.probeFailure(err)
	}
	return ports.ConnectionResult{OK: true}
}

// Configure validates settings with TestConnection and persists them only
// when the test passes. The new settings take effect immediately.
func (b *SyncBridge) Configure(ctx context.Context, settings domain.RemoteSettings) (ports.ConnectionResult, error) {
	res := b.TestConnection(ctx, settings)
	if !res.OK {
		return res, nil
	}
	if err := b.settings.SaveRemote(ctx, settings); err != nil {
		return res, err
	}

	b.mu.Lock()
	old := b.remote
	b.current = settings
	b.remote = nil
	b.mu.Unlock()

	if old != nil {
		if err := old.Close(ctx); err != nil {
			b.log.Debug().Err(err).Msg("close previous remote client")
		}
	}
	b.log.Info().Msg("remote sync settings updated")
	return res, nil
}

// Probe checks the configured remote; used by the readiness probe. It is
// bounded by the remote timeout like every other remote call.
func (b *SyncBridge) Probe(ctx context.Context) error {
	remote, err := b.client(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return remote.Probe(ctx)
}

// Close releases the remote client.
func (b *SyncBridge) Close(ctx context.Context) error {
	b.mu.Lock()
	remote := b.remote
	b.remote = nil
	b.mu.Unlock()
	if remote == nil {
		return nil
	}
	return remote.Close(ctx)
}

// client returns the open remote, opening it on first use.
func (b *SyncBridge) client(ctx context.Context) (ports.RemoteStore, error) {
	b.mu.RLock()
	remote, settings := b.remote, b.current
	b.mu.RUnlock()
	if remote != nil {
		return remote, nil
	}
	if !settings.Configured() {
		return nil, errNotConfigured
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.remote != nil {
		return b.remote, nil
	}
	openCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	remote, err := b.opener.Open(openCtx, b.current)
	if err != nil {
		return nil, err
	}
	b.remote = remote
	return remote, nil
}

func (b *SyncBridge) fail(op string, kind domain.SyncKind, id string, err error) bool {
	serr := &domain.SyncError{Op: op, Kind: string(kind), ID: id, Err: err}
	metrics.SyncPushesTotal.WithLabelValues(string(kind), op, "error").Inc()
	b.log.Warn().Err(serr).Msg("remote sync failed, local copy kept")
	return false
}

// guard keeps panics from remote drivers inside the bridge.
func (b *SyncBridge) guard(op string, kind domain.SyncKind, id *string, ok *bool) {
	if r := recover(); r != nil {
		*ok = b.fail(op, kind, *id, fmt.Errorf("panic: %v", r))
	}
}

func valueID(value any) string {
	switch v := value.(type) {
	case *domain.IncidentRecord:
		if v != nil {
			return v.ID
		}
	case *domain.Account:
		if v != nil {
			return v.ID
		}
	}
	return ""
}

func (b *SyncBridge) probeFailure(err error) ports.ConnectionResult {
	serr := &domain.SyncError{Op: "probe", Kind: string(domain.SyncIncident), Err: err}
	b.log.Warn().Err(serr).Msg("remote connection test failed")
	return ports.ConnectionResult{OK: false, Reason: err.Error()}
}

// IncidentRowFrom flattens a record into the remote summary columns and keeps
// the complete record as the payload.
func IncidentRowFrom(r domain.IncidentRecord) (ports.IncidentRow, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return ports.IncidentRow{}, fmt.Errorf("encode incident payload: %w", err)
	}
	loc := r.Payload.Location
	return ports.IncidentRow{
		ID:                  r.ID,
		SequenceNumber:      r.SequenceNumber,
		Status:              string(r.Status),
		State:               loc.State,
		Locality:            loc.LocalArea,
		LocationDescription: loc.Description,
		Latitude:            loc.GPS.Lat,
		Longitude:           loc.GPS.Lng,
		Data:                data,
		UpdatedAt:           r.UpdatedAt,
	}, nil
}

// AccountRowFrom flattens an account into the remote columns.
func AccountRowFrom(a domain.Account) ports.AccountRow {
	return ports.AccountRow{
		ID:        a.ID,
		FullName:  a.FullName,
		Username:  a.Username,
		Role:      string(a.Role),
		State:     a.State,
		Locality:  a.Locality,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
