package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/api/metrics"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Applier runs a single sync job against the remote store.
type Applier interface {
	Apply(ctx context.Context, job ports.SyncJob) bool
}

// Dispatcher routes sync jobs to a fixed set of workers by hashing the record
// id, so pushes for the same id reach the remote in mutation order.
type Dispatcher struct {
	workers []chan ports.SyncJob
	applier Applier
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, applier Applier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SyncJob, numWorkers),
		applier: applier,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SyncJob, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. Workers exit when ctx is cancelled or
// after Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands job to the worker owning its id. It never blocks: a full
// buffer or a closed dispatcher drops the job and reports false.
func (d *Dispatcher) Enqueue(job ports.SyncJob) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(job, "closed")
		return false
	}

	idx := d.shardIndex(job.ID)
	select {
	case d.workers[idx] <- job:
		metrics.SyncQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		d.drop(job, "buffer_full")
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish or for ctx
// to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(job ports.SyncJob, reason string) {
	metrics.SyncDroppedTotal.WithLabelValues(reason).Inc()
	d.log.Warn().
		Str("kind", string(job.Kind)).
		Str("op", string(job.Op)).
		Str("id", job.ID).
		Str("reason", reason).
		Msg("sync job dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SyncJob) {
	defer d.wg.Done()
	depth := metrics.SyncQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if !d.applier.Apply(ctx, job) {
				d.log.Debug().
					Str("kind", string(job.Kind)).
					Str("id", job.ID).
					Int("worker_id", id).
					Msg("sync job not applied")
			}
		}
	}
}
