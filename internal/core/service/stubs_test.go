package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var errUnreachable = errors.New("dial tcp: no route to host")

// brokenKV fails every counter increment and, optionally, every write.
type brokenKV struct {
	*memory.Store
	failSet bool
}

func newBrokenKV() *brokenKV { return &brokenKV{Store: memory.New()} }

func (k *brokenKV) Incr(context.Context, string) (int64, error) {
	return 0, errors.New("counter medium unavailable")
}

func (k *brokenKV) Set(ctx context.Context, key, value string) error {
	if k.failSet {
		return errors.New("quota exceeded")
	}
	return k.Store.Set(ctx, key, value)
}

// flakyKV fails the next failGets reads of key, then behaves.
type flakyKV struct {
	*memory.Store
	key      string
	failGets int
}

func (k *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if key == k.key && k.failGets > 0 {
		k.failGets--
		return "", false, errors.New("i/o timeout")
	}
	return k.Store.Get(ctx, key)
}

type stubQueue struct {
	mu   sync.Mutex
	jobs []ports.SyncJob
}

func (q *stubQueue) Enqueue(job ports.SyncJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return true
}

func (q *stubQueue) all() []ports.SyncJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]ports.SyncJob(nil), q.jobs...)
}

// syncQueue applies jobs inline so tests can observe the bridge result.
type syncQueue struct {
	bridge  *SyncBridge
	results []bool
}

func (q *syncQueue) Enqueue(job ports.SyncJob) bool {
	q.results = append(q.results, q.bridge.Apply(context.Background(), job))
	return true
}

type stubAuthorizer struct {
	allowed map[domain.Role][]domain.IncidentStatus
}

func (a stubAuthorizer) CanSetStatus(role domain.Role, status domain.IncidentStatus) (bool, error) {
	if role == domain.RoleAdmin {
		return true, nil
	}
	for _, s := range a.allowed[role] {
		if s == status {
			return true, nil
		}
	}
	return false, nil
}

var officerOnlyDrafts = stubAuthorizer{allowed: map[domain.Role][]domain.IncidentStatus{
	domain.RoleOfficer: {domain.StatusDraft, domain.StatusSigned},
}}

type stubSequencer struct {
	next int
	err  error
}

func (s *stubSequencer) Next(context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.next++
	return "25/" + pad5(s.next), nil
}

func pad5(n int) string {
	b := []byte("00000")
	for i := len(b) - 1; i >= 0 && n > 0; i-- {
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b)
}

type fakeRemote struct {
	mu        sync.Mutex
	incidents []ports.IncidentRow
	accounts  []ports.AccountRow
	deleted   []string
	err       error
	panicMsg  string
	hang      bool
	closed    bool
}

func (r *fakeRemote) UpsertIncident(_ context.Context, row ports.IncidentRow) error {
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.incidents = append(r.incidents, row)
	return nil
}

func (r *fakeRemote) UpsertAccount(_ context.Context, row ports.AccountRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.accounts = append(r.accounts, row)
	return nil
}

func (r *fakeRemote) DeleteAccount(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRemote) Probe(ctx context.Context) error {
	if r.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.err
}

func (r *fakeRemote) Close(context.Context) error {
	r.closed = true
	return nil
}

type fakeOpener struct {
	remote  *fakeRemote
	openErr error
	opened  []domain.RemoteSettings
}

func (o *fakeOpener) Open(_ context.Context, s domain.RemoteSettings) (ports.RemoteStore, error) {
	o.opened = append(o.opened, s)
	if o.openErr != nil {
		return nil, o.openErr
	}
	return o.remote, nil
}

type memorySettings struct {
	saved   domain.RemoteSettings
	saveErr error
	saves   int
}

func (m *memorySettings) LoadRemote(context.Context) (domain.RemoteSettings, error) {
	return m.saved, nil
}

func (m *memorySettings) SaveRemote(_ context.Context, s domain.RemoteSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = s
	return nil
}
