package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/api/middleware"
	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

type stubRecordService struct {
	createFn func(ctx context.Context, actor domain.Role, status domain.IncidentStatus, payload domain.IncidentPayload) (*domain.IncidentRecord, error)
	saveFn   func(ctx context.Context, actor domain.Role, record domain.IncidentRecord) (*domain.IncidentRecord, error)
	getFn    func(ctx context.Context, id string) (*domain.IncidentRecord, error)
	listFn   func(ctx context.Context, filter ports.ListIncidentsFilter) []domain.IncidentRecord
	removeFn func(ctx context.Context, id string) error
	exportFn func(ctx context.Context) (*ports.Snapshot, error)
}

func (s *stubRecordService) Create(ctx context.Context, actor domain.Role, status domain.IncidentStatus, payload domain.IncidentPayload) (*domain.IncidentRecord, error) {
	return s.createFn(ctx, actor, status, payload)
}

func (s *stubRecordService) Save(ctx context.Context, actor domain.Role, record domain.IncidentRecord) (*domain.IncidentRecord, error) {
	return s.saveFn(ctx, actor, record)
}

func (s *stubRecordService) Get(ctx context.Context, id string) (*domain.IncidentRecord, error) {
	return s.getFn(ctx, id)
}

func (s *stubRecordService) List(ctx context.Context, filter ports.ListIncidentsFilter) []domain.IncidentRecord {
	return s.listFn(ctx, filter)
}

func (s *stubRecordService) Remove(ctx context.Context, id string) error {
	return s.removeFn(ctx, id)
}

func (s *stubRecordService) Export(ctx context.Context) (*ports.Snapshot, error) {
	return s.exportFn(ctx)
}

type stubAccountService struct {
	listFn   func(ctx context.Context) []domain.Account
	getFn    func(ctx context.Context, id string) (*domain.Account, error)
	saveFn   func(ctx context.Context, account domain.Account) (*domain.Account, error)
	removeFn func(ctx context.Context, id string) error
	toggleFn func(ctx context.Context, id string) (*domain.Account, error)
}

func (s *stubAccountService) List(ctx context.Context) []domain.Account { return s.listFn(ctx) }

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) Save(ctx context.Context, account domain.Account) (*domain.Account, error) {
	return s.saveFn(ctx, account)
}

func (s *stubAccountService) Remove(ctx context.Context, id string) error { return s.removeFn(ctx, id) }

func (s *stubAccountService) ToggleActive(ctx context.Context, id string) (*domain.Account, error) {
	return s.toggleFn(ctx, id)
}

func (s *stubAccountService) EnsureBaseline(context.Context) error { return nil }

type stubSessionService struct {
	loginFn   func(ctx context.Context, username string, portal domain.Role) (*domain.Account, error)
	current   *domain.Session
	loggedOut bool
}

func (s *stubSessionService) Resume(context.Context) (*domain.Account, error) {
	return nil, domain.ErrNoSession
}

func (s *stubSessionService) Login(ctx context.Context, username string, portal domain.Role) (*domain.Account, error) {
	acc, err := s.loginFn(ctx, username, portal)
	if err == nil {
		s.current = &domain.Session{AccountID: acc.ID, Username: acc.Username, Role: acc.Role, Portal: portal}
	}
	return acc, err
}

func (s *stubSessionService) Logout(context.Context) error {
	s.current = nil
	s.loggedOut = true
	return nil
}

func (s *stubSessionService) Current(context.Context) (*domain.Session, error) {
	if s.current == nil {
		return nil, domain.ErrNoSession
	}
	return s.current, nil
}

type stubSyncService struct {
	settings   domain.RemoteSettings
	result     ports.ConnectionResult
	configured []domain.RemoteSettings
	probeErr   error
}

func (s *stubSyncService) TestConnection(context.Context, domain.RemoteSettings) ports.ConnectionResult {
	return s.result
}

func (s *stubSyncService) Configure(_ context.Context, settings domain.RemoteSettings) (ports.ConnectionResult, error) {
	if s.result.OK {
		s.configured = append(s.configured, settings)
		s.settings = settings
	}
	return s.result, nil
}

func (s *stubSyncService) Settings() domain.RemoteSettings { return s.settings }

func (s *stubSyncService) Probe(context.Context) error { return s.probeErr }

// newContext builds an echo context with the validator installed and, when
// role is set, the claims the Auth middleware would inject.
func newContext(method, target string, body io.Reader, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(middleware.CtxRole, role)
	}
	return c, rec
}
