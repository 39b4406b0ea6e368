package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

type sessionService struct {
	accounts ports.AccountRepository
	sessions ports.SessionRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewSessionService returns a SessionService.
func NewSessionService(accounts ports.AccountRepository, sessions ports.SessionRepository, log zerolog.Logger) ports.SessionService {
	return &sessionService{accounts: accounts, sessions: sessions, log: log, now: time.Now}
}

// Resume re-resolves the persisted session by username so that role changes
// made by an admin since the last login are picked up. A session whose
// account is gone or deactivated is cleared.
func (s *sessionService) Resume(ctx context.Context) (*domain.Account, error) {
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByUsername(ctx, sess.Username)
	if err == nil && !account.IsActive {
		err = domain.ErrAccountInactive
	}
	if err != nil {
		s.log.Warn().Err(err).Str("username", sess.Username).Msg("persisted session no longer valid, clearing")
		if clearErr := s.sessions.Clear(ctx); clearErr != nil {
			s.log.Error().Err(clearErr).Msg("failed to clear stale session")
		}
		return nil, err
	}

	if account.Role != sess.Role || account.FullName != sess.FullName || account.ID != sess.AccountID {
		sess.AccountID = account.ID
		sess.Role = account.Role
		sess.FullName = account.FullName
		if err := s.sessions.Save(ctx, *sess); err != nil {
			s.log.Warn().Err(err).Msg("failed to refresh persisted session")
		}
	}

	s.log.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("session resumed")
	return account, nil
}

// Login checks, in order: the account exists, it is active, its role matches
// the selected portal. Each failure is a distinct error.
func (s *sessionService) Login(ctx context.Context, username string, portal domain.Role) (*domain.Account, error) {
	if !portal.Valid() {
		return nil, domain.ErrInvalidRole
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Info().Str("username", username).Msg("login rejected: unknown account")
		}
		return nil, err
	}
	if !account.IsActive {
		s.log.Info().Str("username", username).Msg("login rejected: inactive account")
		return nil, domain.ErrAccountInactive
	}
	if account.Role != portal {
		s.log.Info().Str("username", username).Str("role", string(account.Role)).Str("portal", string(portal)).Msg("login rejected: role mismatch")
		return nil, domain.ErrRoleMismatch
	}

	sess := domain.Session{
		AccountID: account.ID,
		Username:  account.Username,
		FullName:  account.FullName,
		Role:      account.Role,
		Portal:    portal,
		StartedAt: s.now().UTC(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("login")
	return account, nil
}

// Logout clears the persisted pointer and nothing else.
func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("logout")
	return nil
}

func (s *sessionService) Current(ctx context.Context) (*domain.Session, error) {
	return s.sessions.Load(ctx)
}
