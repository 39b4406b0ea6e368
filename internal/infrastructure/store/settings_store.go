package store

import (
	"context"
	"encoding/json"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// SettingsStore keeps the remote store settings the operator entered. Address
// and credential are written as one value so they can never disagree.
type SettingsStore struct {
	kv ports.KV
}

func NewSettingsStore(kv ports.KV) *SettingsStore {
	return &SettingsStore{kv: kv}
}

type storedRemote struct {
	URL       string `json:"url"`
	AccessKey string `json:"access_key"`
}

func (s *SettingsStore) LoadRemote(ctx context.Context) (domain.RemoteSettings, error) {
	raw, ok, err := s.kv.Get(ctx, RemoteKey)
	if err != nil {
		return domain.RemoteSettings{}, err
	}
	if !ok {
		return s.loadLegacy(ctx)
	}
	var v storedRemote
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.RemoteSettings{}, &domain.DeserializationError{Key: RemoteKey, Err: err}
	}
	return domain.RemoteSettings{URL: v.URL, AccessKey: v.AccessKey}, nil
}

func (s *SettingsStore) loadLegacy(ctx context.Context) (domain.RemoteSettings, error) {
	url, _, err := s.kv.Get(ctx, legacyRemoteURLKey)
	if err != nil {
		return domain.RemoteSettings{}, err
	}
	key, _, err := s.kv.Get(ctx, legacyRemoteKeyKey)
	if err != nil {
		return domain.RemoteSettings{}, err
	}
	return domain.RemoteSettings{URL: url, AccessKey: key}, nil
}

func (s *SettingsStore) SaveRemote(ctx context.Context, settings domain.RemoteSettings) error {
	data, err := json.Marshal(storedRemote{URL: settings.URL, AccessKey: settings.AccessKey})
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: RemoteKey, Err: err}
	}
	if err := s.kv.Set(ctx, RemoteKey, string(data)); err != nil {
		return &domain.PersistenceError{Op: "write", Key: RemoteKey, Err: err}
	}
	return nil
}
