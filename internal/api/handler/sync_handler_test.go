package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

const remoteBody = `{"url":"postgres://db.example:5432/ornik8","access_key":"secret"}`

func TestSyncHandler_Test_ReportsFailureAs200(t *testing.T) {
	stub := &stubSyncService{result: ports.ConnectionResult{OK: false, Reason: "connection refused"}}
	h := NewSyncHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/sync/test", strings.NewReader(remoteBody), domain.RoleAdmin)

	if err := h.Test(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res ports.ConnectionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if res.OK || res.Reason != "connection refused" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSyncHandler_Test_RequiresBothFields(t *testing.T) {
	h := NewSyncHandler(&stubSyncService{})

	c, _ := newContext(http.MethodPost, "/v1/sync/test", strings.NewReader(`{"url":"postgres://db/x"}`), domain.RoleAdmin)

	err := h.Test(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestSyncHandler_Configure(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		stub := &stubSyncService{result: ports.ConnectionResult{Reason: "authentication failed"}}
		h := NewSyncHandler(stub)

		c, rec := newContext(http.MethodPut, "/v1/sync/settings", strings.NewReader(remoteBody), domain.RoleAdmin)
		if err := h.Configure(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if len(stub.configured) != 0 {
			t.Fatalf("settings must not be saved")
		}
	})

	t.Run("accepted", func(t *testing.T) {
		stub := &stubSyncService{result: ports.ConnectionResult{OK: true}}
		h := NewSyncHandler(stub)

		c, rec := newContext(http.MethodPut, "/v1/sync/settings", strings.NewReader(remoteBody), domain.RoleAdmin)
		if err := h.Configure(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK || len(stub.configured) != 1 {
			t.Fatalf("expected 200 and saved settings, got %d", rec.Code)
		}
	})
}

func TestSyncHandler_SettingsHidesKey(t *testing.T) {
	stub := &stubSyncService{settings: domain.RemoteSettings{URL: "postgres://db.example/ornik8", AccessKey: "secret"}}
	h := NewSyncHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/sync/settings", nil, domain.RoleAdmin)
	if err := h.Settings(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("access key leaked: %s", rec.Body.String())
	}
	var resp remoteSettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Configured || resp.URL != "postgres://db.example/ornik8" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
