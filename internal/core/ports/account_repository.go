package ports

import (
	"context"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

// AccountRepository persists operator accounts on the device. It performs no
// gating of its own.
type AccountRepository interface {
	// GetAll never fails: unreadable storage yields an empty slice.
	GetAll(ctx context.Context) []domain.Account
	Get(ctx context.Context, id string) (*domain.Account, error)
	// FindByUsername compares usernames case-insensitively.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Put(ctx context.Context, account domain.Account) (*domain.Account, error)
	// Update is an atomic read-modify-write of the whole collection. fn
	// returns the new collection and whether anything changed.
	Update(ctx context.Context, fn func([]domain.Account) ([]domain.Account, bool)) error
	Remove(ctx context.Context, id string) error
}

// SessionRepository persists the active session pointer.
type SessionRepository interface {
	// Load returns domain.ErrNoSession when nothing is persisted.
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

// SettingsRepository persists the remote store settings entered by the operator.
type SettingsRepository interface {
	LoadRemote(ctx context.Context) (domain.RemoteSettings, error)
	SaveRemote(ctx context.Context, settings domain.RemoteSettings) error
}
