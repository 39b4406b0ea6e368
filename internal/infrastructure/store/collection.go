// Package store keeps the device collections (records, accounts, session,
// remote settings) as JSON values in the flat KV medium. Each collection is
// rewritten as one unit on every write, so a reader never sees a partially
// persisted record.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// Keys of the local medium. The collection keys match the ones the field
// application has always used so existing device data stays readable.
const (
	IncidentsKey = "sudanese_traffic_incidents"
	AccountsKey  = "sudanese_traffic_users"
	SequenceKey  = "ornik8_sequence"
	SessionKey   = "ornik8_session"
	RemoteKey    = "ornik8_remote"

	// Older builds kept the remote address and credential under two keys.
	legacyRemoteURLKey = "ornik8_remote_url"
	legacyRemoteKeyKey = "ornik8_remote_key"
)

// quarantineSuffix names the key a corrupt collection is copied to before it
// is overwritten by the next successful write.
const quarantineSuffix = ".corrupt"

// load reads and decodes a JSON array. Unparseable data is reported as a
// *domain.DeserializationError together with the raw value.
func load[T any](ctx context.Context, kv ports.KV, key string) ([]T, string, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	if !ok || raw == "" {
		return []T{}, "", nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, raw, &domain.DeserializationError{Key: key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, raw, nil
}

// loadOrEmpty is the read path: every failure degrades to an empty collection.
func loadOrEmpty[T any](ctx context.Context, kv ports.KV, key string, log zerolog.Logger) []T {
	items, _, err := load[T](ctx, kv, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("collection unreadable, treating as empty")
		return []T{}
	}
	return items
}

// loadForWrite is the write path: a read failure aborts the write, a corrupt
// value is quarantined and replaced.
func loadForWrite[T any](ctx context.Context, kv ports.KV, key string, log zerolog.Logger) ([]T, error) {
	items, raw, err := load[T](ctx, kv, key)
	if err == nil {
		return items, nil
	}

	var de *domain.DeserializationError
	if !errors.As(err, &de) {
		return nil, &domain.PersistenceError{Op: "read", Key: key, Err: err}
	}

	log.Error().Err(err).Str("key", key).Msg("corrupt collection quarantined before overwrite")
	if qerr := kv.Set(ctx, key+quarantineSuffix, raw); qerr != nil {
		return nil, &domain.PersistenceError{Op: "quarantine", Key: key, Err: qerr}
	}
	return []T{}, nil
}

func save[T any](ctx context.Context, kv ports.KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: key, Err: fmt.Errorf("marshal: %w", err)}
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return &domain.PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func utcNow() time.Time { return time.Now().UTC() }
