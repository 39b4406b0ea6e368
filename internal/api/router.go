package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ornik8/incident-sync/docs"
	"github.com/ornik8/incident-sync/internal/api/handler"
	"github.com/ornik8/incident-sync/internal/api/middleware"
	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// Deps are the services the router exposes.
type Deps struct {
	KV        ports.KV
	Records   ports.RecordService
	Accounts  ports.AccountService
	Sessions  ports.SessionService
	Sync      ports.SyncService
	JWTSecret string
	TokenTTL  time.Duration
	Log       zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Log))

	// --- Probes and docs (no auth required) ---
	health := handler.NewHealthHandler(d.KV, d.Sync)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(d.JWTSecret, d.Sessions)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/v1")

	// --- Session ---
	sessions := handler.NewSessionHandler(d.Sessions, func(s *domain.Session) (string, error) {
		return middleware.IssueToken(d.JWTSecret, d.TokenTTL, s)
	})
	v1.POST("/session/login", sessions.Login)
	v1.POST("/session/logout", sessions.Logout, auth)
	v1.GET("/session", sessions.Current, auth)

	// --- Incidents ---
	incidents := handler.NewIncidentHandler(d.Records)
	ig := v1.Group("/incidents", auth)
	ig.GET("", incidents.List)
	ig.POST("", incidents.Create)
	ig.GET("/export", incidents.Export)
	ig.GET("/:id", incidents.Get)
	ig.PUT("/:id", incidents.Update)
	ig.DELETE("/:id", incidents.Delete)

	// --- Accounts (admin) ---
	accounts := handler.NewAccountHandler(d.Accounts)
	ag := v1.Group("/accounts", auth, adminOnly)
	ag.GET("", accounts.List)
	ag.POST("", accounts.Create)
	ag.PUT("/:id", accounts.Update)
	ag.DELETE("/:id", accounts.Delete)
	ag.POST("/:id/toggle", accounts.Toggle)

	// --- Sync (admin) ---
	syncH := handler.NewSyncHandler(d.Sync)
	sg := v1.Group("/sync", auth, adminOnly)
	sg.POST("/test", syncH.Test)
	sg.GET("/settings", syncH.Settings)
	sg.PUT("/settings", syncH.Configure)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
