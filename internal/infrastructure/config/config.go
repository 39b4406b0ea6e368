package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// KV drivers accepted by KV_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=12h"`

	Store    StoreConfig
	Redis    RedisConfig
	Remote   RemoteConfig
	Sync     SyncConfig
	Sequence SequenceConfig
	Backup   BackupConfig
}

type StoreConfig struct {
	Driver     string `env:"KV_DRIVER,   default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH, default=data/ornik8.db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// RemoteConfig seeds the sync settings until an operator saves their own.
type RemoteConfig struct {
	URL      string        `env:"REMOTE_URL"`
	Key      string        `env:"REMOTE_KEY"`
	Database string        `env:"REMOTE_DB,      default=ornik8"`
	Timeout  time.Duration `env:"REMOTE_TIMEOUT, default=10s"`
}

type SyncConfig struct {
	Workers int `env:"SYNC_WORKERS, default=4"`
}

type SequenceConfig struct {
	Fallback string `env:"SEQUENCE_FALLBACK, default=random"`
}

type BackupConfig struct {
	Schedule string `env:"BACKUP_SCHEDULE"`
	Dir      string `env:"BACKUP_DIR, default=backups"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch cfg.Store.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return nil, fmt.Errorf("load config: unknown KV_DRIVER %q", cfg.Store.Driver)
	}
	return &cfg, nil
}
