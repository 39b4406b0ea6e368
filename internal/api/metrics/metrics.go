// Package metrics defines and registers the Prometheus metrics of the incident
// sync service. All metrics are registered with the default registry on
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ornik8"

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsSavedTotal counts incident writes to the local store.
// Label:
//   - result: "ok" or "error"
var RecordsSavedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_saved_total",
		Help:      "Total number of incident records written to the local store.",
	},
	[]string{"result"},
)

// SequenceAllocationsTotal counts sequence number allocations.
// Label:
//   - source: "counter", "fallback" or "failed"
var SequenceAllocationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sequence_allocations_total",
		Help:      "Total number of sequence numbers allocated, by source.",
	},
	[]string{"source"},
)

// ── Sync metrics ──────────────────────────────────────────────────────────────

// SyncPushesTotal counts remote mirror operations.
// Labels:
//   - kind: "incident" or "account"
//   - op: "upsert" or "delete"
//   - result: "ok", "error" or "skipped" (remote not configured)
var SyncPushesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_pushes_total",
		Help:      "Total number of remote mirror operations, by kind, op and result.",
	},
	[]string{"kind", "op", "result"},
)

// SyncQueueDepth tracks jobs waiting in each dispatcher worker channel.
var SyncQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sync_queue_depth",
		Help:      "Current number of sync jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// SyncDroppedTotal counts jobs the dispatcher refused.
// Label:
//   - reason: "buffer_full" or "closed"
var SyncDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_dropped_total",
		Help:      "Total number of sync jobs dropped before reaching a worker.",
	},
	[]string{"reason"},
)

// BackupsTotal counts scheduled snapshot exports.
var BackupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backups_total",
		Help:      "Total number of scheduled snapshot exports, by result.",
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency of the local API.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of local API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
