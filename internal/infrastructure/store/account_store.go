package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// AccountStore implements ports.AccountRepository. It is a dumb store: it
// never checks activity, roles or protected ids.
type AccountStore struct {
	kv  ports.KV
	log zerolog.Logger
	now func() time.Time

	mu sync.Mutex
}

func NewAccountStore(kv ports.KV, log zerolog.Logger) *AccountStore {
	return &AccountStore{kv: kv, log: log, now: utcNow}
}

func (s *AccountStore) GetAll(ctx context.Context) []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadOrEmpty[domain.Account](ctx, s.kv, AccountsKey, s.log)
}

func (s *AccountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	for _, a := range s.GetAll(ctx) {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *AccountStore) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.ErrAccountNotFound
	}
	for _, a := range s.GetAll(ctx) {
		if domain.SameUsername(a.Username, username) {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// Put upserts by id and stamps UpdatedAt.
func (s *AccountStore) Put(ctx context.Context, account domain.Account) (*domain.Account, error) {
	if strings.TrimSpace(account.ID) == "" {
		return nil, domain.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadForWrite[domain.Account](ctx, s.kv, AccountsKey, s.log)
	if err != nil {
		return nil, err
	}

	account.UpdatedAt = s.now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = account.UpdatedAt
	}
	replaced := false
	for i := range accounts {
		if accounts[i].ID == account.ID {
			accounts[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		accounts = append(accounts, account)
	}

	if err := save(ctx, s.kv, AccountsKey, accounts); err != nil {
		return nil, err
	}
	return &account, nil
}

// Update runs fn over the stored collection under the store lock and writes
// the result back when fn reports a change. A read failure aborts before fn
// runs; a corrupt collection is quarantined and fn sees it as empty. Accounts
// without timestamps are stamped on write.
func (s *AccountStore) Update(ctx context.Context, fn func([]domain.Account) ([]domain.Account, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadForWrite[domain.Account](ctx, s.kv, AccountsKey, s.log)
	if err != nil {
		return err
	}
	out, changed := fn(accounts)
	if !changed {
		return nil
	}

	now := s.now()
	for i := range out {
		if out[i].UpdatedAt.IsZero() {
			out[i].UpdatedAt = now
		}
		if out[i].CreatedAt.IsZero() {
			out[i].CreatedAt = now
		}
	}
	return save(ctx, s.kv, AccountsKey, out)
}

func (s *AccountStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := loadForWrite[domain.Account](ctx, s.kv, AccountsKey, s.log)
	if err != nil {
		return err
	}

	kept := accounts[:0]
	for _, a := range accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(accounts) {
		return nil
	}
	return save(ctx, s.kv, AccountsKey, kept)
}
