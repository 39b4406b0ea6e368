// Package backup writes incident snapshots to disk on demand or on a cron
// schedule.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ornik8/incident-sync/internal/api/metrics"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// Exporter produces the snapshot to write.
type Exporter interface {
	Export(ctx context.Context) (*ports.Snapshot, error)
}

// Write stores snap under dir and returns the file path. The file is written
// to a temporary name first so a crash never leaves a half-written backup.
func Write(dir string, snap *ports.Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup dir: %w", err)
	}
	path := filepath.Join(dir, snap.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, snap.Data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// Scheduler runs Export on a cron spec and writes the result to Dir.
type Scheduler struct {
	cron     *cron.Cron
	exporter Exporter
	dir      string
	log      zerolog.Logger
}

// NewScheduler parses spec (standard five-field or descriptors such as
// "@daily") and registers the backup job.
func NewScheduler(spec, dir string, exporter Exporter, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		exporter: exporter,
		dir:      dir,
		log:      log,
	}
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running backup or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce exports and writes a single snapshot.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	snap, err := s.exporter.Export(ctx)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("backup export failed")
		return "", err
	}
	path, err := Write(s.dir, snap)
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("backup write failed")
		return "", err
	}
	metrics.BackupsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("path", path).Msg("backup written")
	return path, nil
}
