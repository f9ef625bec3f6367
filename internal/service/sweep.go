package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

var sweepPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filedrive_sweep_purged_files_total",
	Help: "Number of expired files purged by the trash sweep",
})

// Sweeper periodically purges files whose scheduled deletion time has
// passed. It runs with system privilege: no principal, no permission
// checks.
type Sweeper struct {
	fileStore   model.FileStore
	objectStore model.ObjectStore
	logger      *logger.Logger
	interval    time.Duration
	now         func() time.Time
}

func NewSweeper(
	fileStore model.FileStore,
	objectStore model.ObjectStore,
	logger *logger.Logger,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		fileStore:   fileStore,
		objectStore: objectStore,
		logger:      logger,
		interval:    interval,
		now:         time.Now,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("trash sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("trash sweeper stopped")
			return
		case <-ticker.C:
			purged, err := s.SweepExpired(ctx)
			if err != nil {
				// Unprocessed files stay eligible for the next run.
				s.logger.Error("trash sweep failed", "error", err)
				continue
			}
			if purged > 0 {
				s.logger.Info("trash sweep completed", "purged", purged)
			}
		}
	}
}

// SweepExpired purges every file with a scheduled deletion time at or
// before now and returns how many were purged. Safe to run concurrently
// with itself: a file another sweep already purged is simply skipped.
func (s *Sweeper) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.fileStore.ListExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired files: %w", err)
	}

	purged := 0
	for _, file := range expired {
		if err := s.fileStore.Delete(ctx, file.ID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return purged, fmt.Errorf("failed to delete expired file: %w", err)
		}

		if err := s.objectStore.Delete(ctx, file.StorageKey); err != nil {
			s.logger.Error("failed to delete expired blob", "storage_key", file.StorageKey, "error", err)
		}

		purged++
		sweepPurgedTotal.Inc()
	}

	return purged, nil
}
