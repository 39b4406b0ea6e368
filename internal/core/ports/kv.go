package ports

import "context"

// KV is the flat, process-wide, string-keyed durable medium of the device.
type KV interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Incr atomically increments the integer stored under key (absent counts
	// as zero) and returns the new value. It fails when the stored value is
	// not a plain non-negative integer.
	Incr(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
