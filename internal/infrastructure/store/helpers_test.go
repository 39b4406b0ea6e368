package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ornik8/incident-sync/internal/infrastructure/db/memory"
)

var errDiskFull = errors.New("disk full")

// faultyKV wraps the memory medium and fails writes or reads on demand.
type faultyKV struct {
	*memory.Store
	failSet bool
	failGet bool
}

func newFaultyKV() *faultyKV { return &faultyKV{Store: memory.New()} }

func (f *faultyKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errDiskFull
	}
	return f.Store.Set(ctx, key, value)
}

func (f *faultyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("medium unavailable")
	}
	return f.Store.Get(ctx, key)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event+":"+id)
	return n.err
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}
