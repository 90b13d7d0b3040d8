// Package claim implements C3: the atomic claim protocol and the rest of
// the job state machine (start, complete, fail, cancel). The atomicity
// itself lives in internal/repos.JobRepo (the SKIP LOCKED transaction);
// this package enforces the request-level contract and error taxonomy.
package claim

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/metrics"
	"github.com/latticedata/coordinator/internal/platform/apierr"
	"github.com/latticedata/coordinator/internal/repos"
)

type Engine struct {
	jobs    *repos.JobRepo
	workers *repos.WorkerRepo
	metrics *metrics.Metrics
}

func New(jobs *repos.JobRepo, workers *repos.WorkerRepo, m *metrics.Metrics) *Engine {
	return &Engine{jobs: jobs, workers: workers, metrics: m}
}

// Claim finds and atomically claims the next eligible job for the given
// worker's capability set, implicitly heartbeating the worker. Returns
// nil, nil when no eligible job exists, so handlers can reply 204 without
// treating it as an error.
func (e *Engine) Claim(ctx context.Context, workerID string, capabilities []string) (*domain.Job, error) {
	if workerID == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_argument", errors.New("worker_id must not be empty"))
	}
	if len(capabilities) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_argument", errors.New("capabilities must not be empty"))
	}

	if err := e.workers.Heartbeat(ctx, capabilityHeartbeat(workerID, capabilities)); err != nil {
		return nil, err
	}

	start := time.Now()
	job, err := e.jobs.ClaimNext(ctx, workerID, capabilities)
	if e.metrics != nil {
		e.metrics.ClaimLatency.Observe(time.Since(start).Seconds())
	}
	if errors.Is(err, repos.ErrNoJobAvailable) {
		if e.metrics != nil {
			e.metrics.ClaimsContended.Inc()
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.ClaimsWon.Inc()
	}
	return job, nil
}

func (e *Engine) Start(ctx context.Context, jobID, workerID string) error {
	return e.jobs.Start(ctx, jobID, workerID)
}

func (e *Engine) Complete(ctx context.Context, jobID, workerID string) error {
	return e.jobs.Complete(ctx, jobID, workerID)
}

func (e *Engine) Fail(ctx context.Context, jobID, workerID, errMsg string) error {
	return e.jobs.Fail(ctx, jobID, workerID, errMsg)
}

func (e *Engine) Cancel(ctx context.Context, jobID string) error {
	return e.jobs.Cancel(ctx, jobID)
}

func capabilityHeartbeat(workerID string, capabilities []string) *domain.Worker {
	caps, _ := marshalCapabilities(capabilities)
	return &domain.Worker{ID: workerID, Capabilities: caps}
}
