package store

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// SessionStore implements ports.SessionRepository.
type SessionStore struct {
	kv  ports.KV
	log zerolog.Logger
}

func NewSessionStore(kv ports.KV, log zerolog.Logger) *SessionStore {
	return &SessionStore{kv: kv, log: log}
}

// Load returns domain.ErrNoSession when nothing usable is persisted. An
// unreadable session is treated as no session.
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	raw, ok, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		s.log.Error().Err(err).Msg("session unreadable")
		return nil, domain.ErrNoSession
	}
	if !ok || raw == "" {
		return nil, domain.ErrNoSession
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.log.Error().Err(&domain.DeserializationError{Key: SessionKey, Err: err}).Msg("session corrupt")
		return nil, domain.ErrNoSession
	}
	if sess.Username == "" {
		return nil, domain.ErrNoSession
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: SessionKey, Err: err}
	}
	if err := s.kv.Set(ctx, SessionKey, string(data)); err != nil {
		return &domain.PersistenceError{Op: "write", Key: SessionKey, Err: err}
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return &domain.PersistenceError{Op: "delete", Key: SessionKey, Err: err}
	}
	return nil
}
