// Package progress implements C5: heartbeat, checkpoint, log, and
// report-issue operations, plus the read queries (list jobs, job detail,
// list workers, list pending DQ issues). The coordinator holds no
// in-memory index — every read is served from the store.
package progress

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/datatypes"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/metrics"
	"github.com/latticedata/coordinator/internal/platform/apierr"
	"github.com/latticedata/coordinator/internal/repos"
)

var errNotOwner = errors.New("caller does not own this job")

type Pipeline struct {
	jobs    *repos.JobRepo
	workers *repos.WorkerRepo
	issues  *repos.DataQualityIssueRepo
	logs    *LogBatcher
	metrics *metrics.Metrics
}

func New(jobs *repos.JobRepo, workers *repos.WorkerRepo, issues *repos.DataQualityIssueRepo, logs *LogBatcher, m *metrics.Metrics) *Pipeline {
	return &Pipeline{jobs: jobs, workers: workers, issues: issues, logs: logs, metrics: m}
}

// Heartbeat upserts worker liveness. Tolerates unknown worker_id by
// creating the row (first contact).
func (p *Pipeline) Heartbeat(ctx context.Context, workerID string, capabilities []byte, metadata []byte) error {
	return p.workers.Heartbeat(ctx, &domain.Worker{
		ID:           workerID,
		Capabilities: datatypes.JSON(capabilities),
		Metadata:     datatypes.JSON(metadata),
		Status:       domain.WorkerStatusActive,
	})
}

// Checkpoint overwrites the job's opaque checkpoint blob. Valid only when
// the caller currently owns the job.
func (p *Pipeline) Checkpoint(ctx context.Context, jobID, workerID string, checkpoint []byte) error {
	return p.jobs.Checkpoint(ctx, jobID, workerID, checkpoint)
}

// Log enqueues a log line for asynchronous batch insert; it never blocks
// the worker path.
func (p *Pipeline) Log(jobID, level, message string) {
	p.logs.Enqueue(domain.JobLog{
		JobID:     jobID,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
}

// ReportIssue inserts a pending data-quality finding.
func (p *Pipeline) ReportIssue(ctx context.Context, issue *domain.DataQualityIssue) error {
	if err := p.issues.Create(ctx, issue); err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.DQIssuesBySeverity.WithLabelValues(issue.Severity).Inc()
	}
	return nil
}

// ResolveIssue transitions a DQ issue out of pending.
func (p *Pipeline) ResolveIssue(ctx context.Context, issueID, action, notes, resolvedBy string) error {
	return p.issues.Resolve(ctx, issueID, action, notes, resolvedBy)
}

func (p *Pipeline) ListJobs(ctx context.Context, status string, limit int) ([]domain.Job, error) {
	return p.jobs.List(ctx, status, limit)
}

func (p *Pipeline) JobDetail(ctx context.Context, jobID string) (*domain.Job, *domain.Worker, error) {
	job, err := p.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.WorkerID == nil {
		return job, nil, nil
	}
	worker, err := p.workers.GetByID(ctx, *job.WorkerID)
	if err != nil {
		return job, nil, nil
	}
	return job, worker, nil
}

// JobDetailOwned returns the job only if workerID is its current owner,
// rejecting with precondition_failed otherwise: a worker must not be able
// to report progress on a job it does not hold.
func (p *Pipeline) JobDetailOwned(ctx context.Context, jobID, workerID string) (*domain.Job, error) {
	job, err := p.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.WorkerID == nil || *job.WorkerID != workerID {
		return nil, apierr.New(http.StatusPreconditionFailed, "precondition_failed",
			errNotOwner)
	}
	return job, nil
}

func (p *Pipeline) ListActiveWorkers(ctx context.Context) ([]domain.Worker, error) {
	return p.workers.ListActive(ctx)
}

func (p *Pipeline) ListIssues(ctx context.Context, status string, limit int) ([]domain.DataQualityIssue, error) {
	return p.issues.List(ctx, status, limit)
}
