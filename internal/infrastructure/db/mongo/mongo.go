package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// defaultUsername is used when the connection string carries no user info.
const defaultUsername = "ornik8"

// Config captures the settings required to reach the remote mirror.
type Config struct {
	URI       string
	Database  string
	AccessKey string
	Timeout   time.Duration
}

// Connect establishes a MongoDB client authenticated with the access key,
// verifies connectivity with a ping, and returns the client and database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().ApplyURI(cfg.URI).SetTimeout(timeout)
	if cfg.AccessKey != "" {
		cred := options.Credential{Username: defaultUsername, Password: cfg.AccessKey}
		if opts.Auth != nil && opts.Auth.Username != "" {
			cred.Username = opts.Auth.Username
			cred.AuthSource = opts.Auth.AuthSource
			cred.AuthMechanism = opts.Auth.AuthMechanism
		}
		opts.SetAuth(cred)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}
