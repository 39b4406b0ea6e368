package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

type accountService struct {
	repo ports.AccountRepository
	sync ports.SyncQueue
	log  zerolog.Logger
	now  func() time.Time
}

// NewAccountService returns an AccountService. sync may be nil.
func NewAccountService(repo ports.AccountRepository, sync ports.SyncQueue, log zerolog.Logger) ports.AccountService {
	return &accountService{repo: repo, sync: sync, log: log, now: time.Now}
}

func (s *accountService) List(ctx context.Context) []domain.Account {
	return s.repo.GetAll(ctx)
}

func (s *accountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// Save upserts by id, then mirrors the account without waiting for it.
func (s *accountService) Save(ctx context.Context, account domain.Account) (*domain.Account, error) {
	account.Username = strings.TrimSpace(account.Username)
	if account.Username == "" {
		return nil, domain.ErrUsernameRequired
	}
	if !account.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
		account.IsActive = true
	}

	if other, err := s.repo.FindByUsername(ctx, account.Username); err == nil && other.ID != account.ID {
		return nil, domain.ErrUsernameTaken
	}
	if existing, err := s.repo.Get(ctx, account.ID); err == nil {
		if domain.IsBaselineID(account.ID) && !domain.SameUsername(existing.Username, account.Username) {
			return nil, domain.ErrBaselineRename
		}
		account.CreatedAt = existing.CreatedAt
	}

	stored, err := s.repo.Put(ctx, account)
	if err != nil {
		s.log.Error().Err(err).Str("username", account.Username).Msg("failed to save account")
		return nil, err
	}
	s.log.Info().Str("id", stored.ID).Str("username", stored.Username).Str("role", string(stored.Role)).Msg("account saved")

	s.mirror(ports.SyncJob{Kind: domain.SyncAccount, Op: ports.SyncUpsert, ID: stored.ID, Account: stored})
	return stored, nil
}

// Remove deletes locally, then requests a best-effort remote delete. The
// central administrator account is refused.
func (s *accountService) Remove(ctx context.Context, id string) error {
	if id == domain.AdminAccountID {
		return domain.ErrProtectedAccount
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("failed to remove account")
		return err
	}
	s.log.Info().Str("id", id).Msg("account removed")

	s.mirror(ports.SyncJob{Kind: domain.SyncAccount, Op: ports.SyncDelete, ID: id})
	return nil
}

// ToggleActive flips IsActive through Save. Unknown ids are a no-op.
func (s *accountService) ToggleActive(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	account.IsActive = !account.IsActive
	return s.Save(ctx, *account)
}

// EnsureBaseline re-asserts the baseline accounts: drifted ones are healed,
// missing ones are appended, everything else is left alone. The collection is
// read and written as one unit, only when something changed, so a failed read
// aborts seeding instead of dropping accounts. Seeding stays local.
func (s *accountService) EnsureBaseline(ctx context.Context) error {
	now := s.now().UTC()
	err := s.repo.Update(ctx, func(accounts []domain.Account) ([]domain.Account, bool) {
		changed := false
		for _, b := range domain.BaselineAccounts {
			idx := baselineIndex(accounts, b)
			if idx < 0 {
				accounts = append(accounts, domain.NewBaselineAccount(b, now))
				changed = true
				s.log.Info().Str("username", b.Username).Msg("baseline account created")
				continue
			}
			if s.heal(accounts, idx, b) {
				changed = true
			}
		}
		return accounts, changed
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to seed baseline accounts")
		return err
	}
	return nil
}

// baselineIndex finds b by its well-known id, then by username.
func baselineIndex(accounts []domain.Account, b domain.BaselineAccount) int {
	for i := range accounts {
		if accounts[i].ID == b.ID {
			return i
		}
	}
	for i := range accounts {
		if domain.SameUsername(accounts[i].Username, b.Username) {
			return i
		}
	}
	return -1
}

// heal restores the baseline fields of accounts[idx]. A renamed baseline
// account gets its username back unless another account now holds it.
func (s *accountService) heal(accounts []domain.Account, idx int, b domain.BaselineAccount) bool {
	a := &accounts[idx]
	renamed := !domain.SameUsername(a.Username, b.Username)
	if renamed {
		for i := range accounts {
			if i != idx && domain.SameUsername(accounts[i].Username, b.Username) {
				s.log.Warn().Str("id", a.ID).Str("username", b.Username).Msg("baseline username held by another account, not restored")
				renamed = false
				break
			}
		}
	}
	if !renamed && a.Role == b.Role && a.FullName == b.FullName && a.IsActive {
		return false
	}

	s.log.Warn().
		Str("username", b.Username).
		Str("role", string(a.Role)).
		Bool("active", a.IsActive).
		Msg("baseline account drifted, restoring")
	if renamed {
		a.Username = b.Username
	}
	a.Role = b.Role
	a.FullName = b.FullName
	a.IsActive = true
	a.UpdatedAt = time.Time{}
	return true
}

func (s *accountService) mirror(job ports.SyncJob) {
	if s.sync == nil {
		return
	}
	s.sync.Enqueue(job)
}
