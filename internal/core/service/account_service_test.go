package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/memory"
	"github.com/ornik8/incident-sync/internal/infrastructure/store"
)

func newAccountService(kv ports.KV, q ports.SyncQueue) (ports.AccountService, *store.AccountStore) {
	repo := store.NewAccountStore(kv, zerolog.Nop())
	return NewAccountService(repo, q, zerolog.Nop()), repo
}

func TestAccountService_EnsureBaselineOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(memory.New(), nil)

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	all := svc.List(ctx)
	if len(all) != len(domain.BaselineAccounts) {
		t.Fatalf("expected %d accounts, got %d", len(domain.BaselineAccounts), len(all))
	}
	for _, b := range domain.BaselineAccounts {
		a, err := svc.Get(ctx, b.ID)
		if err != nil {
			t.Fatalf("baseline %s missing: %v", b.Username, err)
		}
		if a.Username != b.Username || a.Role != b.Role || !a.IsActive {
			t.Fatalf("baseline %s wrong: %+v", b.Username, a)
		}
	}
}

func TestAccountService_EnsureBaselineHealsDrift(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAccountService(memory.New(), nil)

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}
	// an admin demoted and deactivated the officer account
	officer, _ := repo.Get(ctx, "officer-001")
	officer.Role = domain.RoleInvestigator
	officer.IsActive = false
	if _, err := repo.Put(ctx, *officer); err != nil {
		t.Fatalf("put: %v", err)
	}
	custom := domain.Account{ID: "u-1", Username: "hassan", Role: domain.RoleOfficer, FullName: "Hassan", IsActive: false}
	if _, err := repo.Put(ctx, custom); err != nil {
		t.Fatalf("put custom: %v", err)
	}
	if err := repo.Remove(ctx, "ops-001"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	healed, _ := svc.Get(ctx, "officer-001")
	if healed.Role != domain.RoleOfficer || !healed.IsActive {
		t.Fatalf("officer not healed: %+v", healed)
	}
	if _, err := svc.Get(ctx, "ops-001"); err != nil {
		t.Fatalf("ops not recreated: %v", err)
	}
	kept, _ := svc.Get(ctx, "u-1")
	if kept.IsActive || kept.FullName != "Hassan" {
		t.Fatalf("custom account must be left alone: %+v", kept)
	}
	if n := len(svc.List(ctx)); n != len(domain.BaselineAccounts)+1 {
		t.Fatalf("expected %d accounts, got %d", len(domain.BaselineAccounts)+1, n)
	}
}

func TestAccountService_EnsureBaselineIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	svc, _ := newAccountService(kv, nil)

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}
	before, _, _ := kv.Get(ctx, store.AccountsKey)

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("second ensure baseline: %v", err)
	}
	after, _, _ := kv.Get(ctx, store.AccountsKey)
	if before != after {
		t.Fatalf("second run rewrote the collection")
	}
}

func TestAccountService_EnsureBaselineMatchesUsernameCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAccountService(memory.New(), nil)

	legacy := domain.Account{ID: "legacy-7", Username: "Officer", Role: domain.RoleOfficer, FullName: "Field Traffic Officer", IsActive: true}
	if _, err := repo.Put(ctx, legacy); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	if _, err := svc.Get(ctx, "officer-001"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("existing officer should not be duplicated, got %v", err)
	}
	if n := len(svc.List(ctx)); n != len(domain.BaselineAccounts) {
		t.Fatalf("expected %d accounts, got %d", len(domain.BaselineAccounts), n)
	}
}

func TestAccountService_EnsureBaselineReadFailureKeepsAccounts(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Store: memory.New(), key: store.AccountsKey}
	svc, repo := newAccountService(kv, nil)

	if _, err := repo.Put(ctx, domain.Account{ID: "u-1", Username: "hassan", Role: domain.RoleOfficer, IsActive: true}); err != nil {
		t.Fatalf("put: %v", err)
	}

	kv.failGets = 1
	if err := svc.EnsureBaseline(ctx); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := svc.Get(ctx, "u-1"); err != nil {
		t.Fatalf("operator account lost after failed read: %v", err)
	}

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline retry: %v", err)
	}
	if n := len(svc.List(ctx)); n != len(domain.BaselineAccounts)+1 {
		t.Fatalf("expected %d accounts, got %d", len(domain.BaselineAccounts)+1, n)
	}
}

func TestAccountService_EnsureBaselineQuarantinesCorruptAccounts(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	if err := kv.Set(ctx, store.AccountsKey, "{not json"); err != nil {
		t.Fatalf("set: %v", err)
	}
	svc, _ := newAccountService(kv, nil)

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}
	raw, ok, _ := kv.Get(ctx, store.AccountsKey+".corrupt")
	if !ok || raw != "{not json" {
		t.Fatalf("corrupt collection not preserved, got %q", raw)
	}
	if n := len(svc.List(ctx)); n != len(domain.BaselineAccounts) {
		t.Fatalf("expected %d accounts, got %d", len(domain.BaselineAccounts), n)
	}
}

func TestAccountService_BaselineUsernameCannotBeChanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(memory.New(), nil)
	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	admin, _ := svc.Get(ctx, domain.AdminAccountID)
	admin.Username = "chief"
	if _, err := svc.Save(ctx, *admin); !errors.Is(err, domain.ErrBaselineRename) {
		t.Fatalf("expected ErrBaselineRename, got %v", err)
	}

	admin.Username = "ADMIN"
	admin.FullName = "Central System Administrator"
	if _, err := svc.Save(ctx, *admin); err != nil {
		t.Fatalf("case-only change should be accepted: %v", err)
	}
}

func TestAccountService_EnsureBaselineMatchesByIDFirst(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAccountService(memory.New(), nil)
	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	// renamed by an older build or by direct storage edits
	admin, _ := repo.Get(ctx, domain.AdminAccountID)
	admin.Username = "chief"
	if _, err := repo.Put(ctx, *admin); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	count := 0
	for _, a := range svc.List(ctx) {
		if a.ID == domain.AdminAccountID {
			count++
			if a.Username != "admin" {
				t.Fatalf("username not restored: %q", a.Username)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected one %s, got %d", domain.AdminAccountID, count)
	}
	if n := len(svc.List(ctx)); n != len(domain.BaselineAccounts) {
		t.Fatalf("expected %d accounts, got %d", len(domain.BaselineAccounts), n)
	}
}

func TestAccountService_EnsureBaselineDoesNotMirror(t *testing.T) {
	q := &stubQueue{}
	svc, _ := newAccountService(memory.New(), q)

	if err := svc.EnsureBaseline(context.Background()); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}
	if len(q.all()) != 0 {
		t.Fatalf("seeding must stay local, got %d jobs", len(q.all()))
	}
}

func TestAccountService_SaveValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(memory.New(), nil)
	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	tests := []struct {
		name    string
		account domain.Account
		wantErr error
	}{
		{"blank username", domain.Account{Username: "   ", Role: domain.RoleOfficer}, domain.ErrUsernameRequired},
		{"unknown role", domain.Account{Username: "nour", Role: "pilot"}, domain.ErrInvalidRole},
		{"taken username", domain.Account{Username: " SUPERVISOR ", Role: domain.RoleOfficer}, domain.ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Save(ctx, tt.account); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAccountService_SaveCreatesAndMirrors(t *testing.T) {
	ctx := context.Background()
	q := &stubQueue{}
	svc, _ := newAccountService(memory.New(), q)

	created, err := svc.Save(ctx, domain.Account{Username: " nour ", FullName: "Nour", Role: domain.RoleInvestigator})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if created.ID == "" || !created.IsActive || created.Username != "nour" {
		t.Fatalf("unexpected account: %+v", created)
	}

	created.FullName = "Nour Adam"
	updated, err := svc.Save(ctx, *created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created at changed")
	}

	jobs := q.all()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 mirror jobs, got %d", len(jobs))
	}
	if jobs[1].Op != ports.SyncUpsert || jobs[1].Account.FullName != "Nour Adam" {
		t.Fatalf("unexpected job %+v", jobs[1])
	}
}

func TestAccountService_RemoveProtectedAdmin(t *testing.T) {
	ctx := context.Background()
	q := &stubQueue{}
	svc, _ := newAccountService(memory.New(), q)
	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	if err := svc.Remove(ctx, domain.AdminAccountID); !errors.Is(err, domain.ErrProtectedAccount) {
		t.Fatalf("expected ErrProtectedAccount, got %v", err)
	}
	if _, err := svc.Get(ctx, domain.AdminAccountID); err != nil {
		t.Fatalf("admin must survive: %v", err)
	}

	if err := svc.Remove(ctx, "ops-001"); err != nil {
		t.Fatalf("remove ops: %v", err)
	}
	jobs := q.all()
	if len(jobs) != 1 || jobs[0].Op != ports.SyncDelete || jobs[0].ID != "ops-001" {
		t.Fatalf("expected one delete job, got %+v", jobs)
	}
}

func TestAccountService_ToggleActive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(memory.New(), nil)
	if err := svc.EnsureBaseline(ctx); err != nil {
		t.Fatalf("ensure baseline: %v", err)
	}

	toggled, err := svc.ToggleActive(ctx, "supervisor-001")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.IsActive {
		t.Fatalf("expected inactive")
	}
	toggled, _ = svc.ToggleActive(ctx, "supervisor-001")
	if !toggled.IsActive {
		t.Fatalf("expected active again")
	}

	missing, err := svc.ToggleActive(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("unknown id should be a no-op, got %+v, %v", missing, err)
	}
}

func TestAccountService_UnreachableRemoteKeepsLocalWrites(t *testing.T) {
	ctx := context.Background()
	opener := &fakeOpener{openErr: errUnreachable}
	settings := &memorySettings{}
	bridge := NewSyncBridge(opener, settings, 0, zerolog.Nop())
	bridge.Init(ctx, domain.RemoteSettings{URL: "postgres://10.255.255.1:5432/ornik8", AccessKey: "k"})

	q := &syncQueue{bridge: bridge}
	svc, _ := newAccountService(memory.New(), q)

	saved, err := svc.Save(ctx, domain.Account{Username: "field7", Role: domain.RoleOfficer})
	if err != nil {
		t.Fatalf("save should succeed without the remote: %v", err)
	}
	found := false
	for _, a := range svc.List(ctx) {
		if a.ID == saved.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("account not retrievable after failed mirror")
	}

	if err := svc.Remove(ctx, saved.ID); err != nil {
		t.Fatalf("remove should succeed without the remote: %v", err)
	}
	if len(svc.List(ctx)) != 0 {
		t.Fatalf("account should be gone locally")
	}

	if len(q.results) != 2 || q.results[0] || q.results[1] {
		t.Fatalf("expected two failed pushes, got %v", q.results)
	}
}
