// Package app assembles the services from configuration. Both the HTTP server
// and the CLI build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/api"
	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
	"github.com/ornik8/incident-sync/internal/core/service"
	"github.com/ornik8/incident-sync/internal/infrastructure/authz"
	"github.com/ornik8/incident-sync/internal/infrastructure/backup"
	"github.com/ornik8/incident-sync/internal/infrastructure/config"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/memory"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/redis"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/sqlite"
	"github.com/ornik8/incident-sync/internal/infrastructure/queue"
	"github.com/ornik8/incident-sync/internal/infrastructure/remote"
	"github.com/ornik8/incident-sync/internal/infrastructure/store"
)

const (
	redisKeyPrefix  = "ornik8:"
	shutdownTimeout = 10 * time.Second
)

// App holds the wired services of one process.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	KV       ports.KV
	Records  ports.RecordService
	Accounts ports.AccountService
	Sessions ports.SessionService
	Sequence *service.SequenceAllocator
	Sync     *service.SyncBridge

	dispatcher *queue.Dispatcher
	cancel     context.CancelFunc
}

// New opens the local medium, wires the services, seeds the baseline
// accounts and starts the sync workers. Close releases everything.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	kv, notifier, err := openKV(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	enforcer, err := authz.New(authz.DefaultPolicy)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	records := store.NewRecordStore(kv, notifier, log.With().Str("component", "record_store").Logger())
	accounts := store.NewAccountStore(kv, log.With().Str("component", "account_store").Logger())
	sessions := store.NewSessionStore(kv, log)
	settings := store.NewSettingsStore(kv)

	bridge := service.NewSyncBridge(
		remote.Opener{Database: cfg.Remote.Database, Timeout: cfg.Remote.Timeout},
		settings,
		cfg.Remote.Timeout,
		log.With().Str("component", "sync").Logger(),
	)
	bridge.Init(ctx, domain.RemoteSettings{URL: cfg.Remote.URL, AccessKey: cfg.Remote.Key})

	dispatcher := queue.NewDispatcher(cfg.Sync.Workers, bridge, log.With().Str("component", "dispatcher").Logger())
	workerCtx, cancel := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	seq := service.NewSequenceAllocator(kv, store.SequenceKey, service.ParseFallbackPolicy(cfg.Sequence.Fallback), log)

	a := &App{
		Config:     cfg,
		Log:        log,
		KV:         kv,
		Records:    service.NewRecordService(records, seq, enforcer, dispatcher, log),
		Accounts:   service.NewAccountService(accounts, dispatcher, log),
		Sessions:   service.NewSessionService(accounts, sessions, log),
		Sequence:   seq,
		Sync:       bridge,
		dispatcher: dispatcher,
		cancel:     cancel,
	}

	if err := a.Accounts.EnsureBaseline(ctx); err != nil {
		log.Error().Err(err).Msg("baseline accounts could not be seeded")
	}
	return a, nil
}

// Close drains the sync queue, then releases the remote and the local medium.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.dispatcher.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain sync queue: %w", err))
	}
	a.cancel()
	if err := a.Sync.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close remote: %w", err))
	}
	if err := a.KV.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close local store: %w", err))
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP API until ctx is cancelled. The persisted session is
// resumed first and the backup schedule started when configured.
func (a *App) Serve(ctx context.Context) error {
	if _, err := a.Sessions.Resume(ctx); err != nil && !errors.Is(err, domain.ErrNoSession) {
		a.Log.Warn().Err(err).Msg("stored session discarded")
	}

	if a.Config.Backup.Schedule != "" {
		sched, err := backup.NewScheduler(a.Config.Backup.Schedule, a.Config.Backup.Dir, a.Records,
			a.Log.With().Str("component", "backup").Logger())
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	secret := a.Config.JWTSecret
	if secret == "" {
		if a.Config.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		secret = "ornik8-development-secret"
		a.Log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	e := api.NewRouter(api.Deps{
		KV:        a.KV,
		Records:   a.Records,
		Accounts:  a.Accounts,
		Sessions:  a.Sessions,
		Sync:      a.Sync,
		JWTSecret: secret,
		TokenTTL:  a.Config.TokenTTL,
		Log:       a.Log.With().Str("component", "http").Logger(),
	})

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().Str("port", a.Config.Port).Msg("http server listening")
		if err := e.Start(":" + a.Config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openKV(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.KV, ports.Notifier, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, durable, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		if !durable {
			log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis has no AOF or RDB persistence: records are lost on restart")
		}
		return redis.NewKV(client, redisKeyPrefix), redis.NewNotifier(client), nil
	case config.DriverMemory:
		log.Warn().Msg("in-memory store: data is lost on exit")
		return memory.New(), logNotifier{log: log}, nil
	default:
		kv, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, logNotifier{log: log}, nil
	}
}

// logNotifier stands in for the device signal when no Redis channel exists.
type logNotifier struct {
	log zerolog.Logger
}

func (n logNotifier) Notify(_ context.Context, event, id string) error {
	n.log.Debug().Str("event", event).Str("id", id).Msg("device signal")
	return nil
}
