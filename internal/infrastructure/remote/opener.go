// Package remote selects the mirror backend from the remote address.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/mongo"
	"github.com/ornik8/incident-sync/internal/infrastructure/db/postgres"
)

// ErrUnsupportedScheme is returned for addresses no backend understands.
var ErrUnsupportedScheme = errors.New("unsupported remote address scheme")

// Opener implements ports.RemoteOpener.
type Opener struct {
	// Database is the MongoDB database name; Postgres takes it from the URL.
	Database string
	Timeout  time.Duration
}

func (o Opener) Open(ctx context.Context, settings domain.RemoteSettings) (ports.RemoteStore, error) {
	u, err := url.Parse(strings.TrimSpace(settings.URL))
	if err != nil {
		return nil, fmt.Errorf("parse remote address: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:       settings.URL,
			Database:  o.Database,
			AccessKey: settings.AccessKey,
			Timeout:   o.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return mongo.NewMirror(client, db), nil
	case "postgres", "postgresql":
		pool, err := postgres.Connect(ctx, postgres.Config{
			URL:       settings.URL,
			AccessKey: settings.AccessKey,
			Timeout:   o.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return postgres.NewMirror(pool), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}
