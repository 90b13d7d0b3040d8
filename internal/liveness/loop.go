// Package liveness implements C4: the single-writer periodic pass that
// marks stale workers offline and reclaims the jobs they were holding.
package liveness

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/latticedata/coordinator/internal/metrics"
	"github.com/latticedata/coordinator/internal/platform/logger"
	"github.com/latticedata/coordinator/internal/repos"
)

const advisoryLockNamespace = "coordinator:liveness:reclaim"

type Config struct {
	StaleThreshold     time.Duration
	ReclamationCadence time.Duration
}

func DefaultConfig() Config {
	return Config{
		StaleThreshold:     5 * time.Minute,
		ReclamationCadence: 30 * time.Second,
	}
}

type Loop struct {
	db      *gorm.DB
	jobs    *repos.JobRepo
	workers *repos.WorkerRepo
	cfg     Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

func New(db *gorm.DB, jobs *repos.JobRepo, workers *repos.WorkerRepo, cfg Config, log *logger.Logger, m *metrics.Metrics) *Loop {
	return &Loop{
		db:      db,
		jobs:    jobs,
		workers: workers,
		cfg:     cfg,
		log:     log.With("component", "LivenessLoop"),
		metrics: m,
	}
}

// Run ticks at ReclamationCadence until ctx is cancelled. Each tick runs
// one pass; a failed pass is logged and retried on the next tick rather
// than aborting the loop.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.ReclamationCadence)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.Pass(ctx); err != nil {
				l.log.Error("reclamation pass failed", "error", err.Error())
			}
		}
	}
}

// Pass runs the two-step reclamation inside one transaction guarded by a
// Postgres advisory lock, so only one coordinator instance runs it at a
// time and the second step sees a consistent snapshot of step one.
func (l *Loop) Pass(ctx context.Context) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryXactLock(tx, advisoryLockNamespace); err != nil {
			return err
		}

		cutoff := time.Now().UTC().Add(-l.cfg.StaleThreshold)
		staleWorkerIDs, err := l.workers.MarkStaleOffline(ctx, tx, cutoff)
		if err != nil {
			return err
		}

		for _, workerID := range staleWorkerIDs {
			jobs, err := l.jobs.ReclaimableForWorker(ctx, tx, workerID)
			if err != nil {
				return err
			}
			for i := range jobs {
				job := jobs[i]
				if err := l.jobs.Abandon(ctx, tx, &job, "worker became unresponsive"); err != nil {
					return err
				}
				if l.metrics != nil {
					l.metrics.JobsReclaimed.Inc()
				}
				l.log.Info("reclaimed job from unresponsive worker",
					"job_id", job.ID, "worker_id", workerID)
			}
		}
		return nil
	})
}
