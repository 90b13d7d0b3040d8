// Package repos holds gorm-backed repositories, one per table, including
// the claim-engine's row-locking primitive.
package repos

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/platform/apierr"
)

var ErrNoJobAvailable = errors.New("no job available")

type JobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) *JobRepo {
	return &JobRepo{db: db}
}

// Enqueue performs the idempotent insert C2 relies on: insert if absent,
// otherwise do nothing, so at-least-once redelivery of the same job_id is
// a no-op.
func (r *JobRepo) Enqueue(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}},
			DoNothing: true,
		}).
		Create(job).Error
}

func (r *JobRepo) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	var job domain.Job
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.New(http.StatusNotFound, "job_not_found", err)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepo) List(ctx context.Context, status string, limit int) ([]domain.Job, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var jobs []domain.Job
	if err := q.Limit(limit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ClaimNext implements the claim engine's atomic selection primitive: lock
// the smallest-(created_at, job_id) pending row whose job_type is in the
// worker's capability set, skipping rows already locked by a concurrent
// claimer, and transition it to claimed in the same transaction.
func (r *JobRepo) ClaimNext(ctx context.Context, workerID string, capabilities []string) (*domain.Job, error) {
	if len(capabilities) == 0 {
		return nil, ErrNoJobAvailable
	}

	var claimed *domain.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job domain.Job
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND job_type IN ?", domain.JobStatusPending, capabilities).
			Order("created_at ASC, job_id ASC").
			Limit(1).
			First(&job).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoJobAvailable
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&domain.Job{}).
			Where("job_id = ? AND status = ?", job.ID, domain.JobStatusPending).
			Updates(map[string]interface{}{
				"status":     domain.JobStatusClaimed,
				"worker_id":  workerID,
				"claimed_at": now,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race to a concurrent claimer between select and update
			return ErrNoJobAvailable
		}

		job.Status = domain.JobStatusClaimed
		job.WorkerID = &workerID
		job.ClaimedAt = &now
		job.UpdatedAt = now
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Start records that the owning worker began processing. Rejects with
// precondition_failed if the caller is not the current owner or the job
// is not in claimed.
func (r *JobRepo) Start(ctx context.Context, jobID, workerID string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("job_id = ? AND status = ? AND worker_id = ?", jobID, domain.JobStatusClaimed, workerID).
		Updates(map[string]interface{}{
			"status":     domain.JobStatusRunning,
			"started_at": now,
			"updated_at": now,
		})
	return rejectIfNoRows(res, jobID)
}

// Complete is terminal: sets completed_at and clears ownership.
func (r *JobRepo) Complete(ctx context.Context, jobID, workerID string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("job_id = ? AND status = ? AND worker_id = ?", jobID, domain.JobStatusRunning, workerID).
		Updates(map[string]interface{}{
			"status":       domain.JobStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
			"worker_id":    nil,
		})
	return rejectIfNoRows(res, jobID)
}

// Fail records an error; if the retry budget remains, the job returns to
// pending with an incremented retry_count and cleared ownership, otherwise
// it becomes terminal failed.
func (r *JobRepo) Fail(ctx context.Context, jobID, workerID, errMsg string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job domain.Job
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("job_id = ? AND status = ? AND worker_id = ?", jobID, domain.JobStatusRunning, workerID).
			First(&job).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.New(http.StatusPreconditionFailed, "precondition_failed", err)
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"error_message": errMsg,
			"updated_at":    now,
			"worker_id":     nil,
		}
		if job.RetryCount < job.MaxRetries {
			updates["status"] = domain.JobStatusPending
			updates["retry_count"] = job.RetryCount + 1
			updates["claimed_at"] = nil
			updates["started_at"] = nil
		} else {
			updates["status"] = domain.JobStatusFailed
		}
		return tx.Model(&domain.Job{}).Where("job_id = ?", jobID).Updates(updates).Error
	})
}

// Abandon is invoked by C4, within the same transaction as the staleness
// scan that discovered the owning worker is offline. It applies the same
// retry policy as Fail but is not gated on worker_id ownership since the
// worker is presumed dead.
func (r *JobRepo) Abandon(ctx context.Context, tx *gorm.DB, job *domain.Job, reason string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"error_message": reason,
		"updated_at":    now,
		"worker_id":     nil,
	}
	if job.RetryCount < job.MaxRetries {
		updates["status"] = domain.JobStatusPending
		updates["retry_count"] = job.RetryCount + 1
		updates["claimed_at"] = nil
		updates["started_at"] = nil
	} else {
		updates["status"] = domain.JobStatusFailed
	}
	return tx.WithContext(ctx).Model(&domain.Job{}).
		Where("job_id = ? AND worker_id = ?", job.ID, *job.WorkerID).
		Updates(updates).Error
}

// Cancel transitions any non-terminal job to cancelled, admin-initiated.
func (r *JobRepo) Cancel(ctx context.Context, jobID string) error {
	res := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("job_id = ? AND status NOT IN ?", jobID, []string{
			domain.JobStatusCompleted, domain.JobStatusFailed, domain.JobStatusCancelled,
		}).
		Updates(map[string]interface{}{
			"status":     domain.JobStatusCancelled,
			"updated_at": time.Now().UTC(),
		})
	return rejectIfNoRows(res, jobID)
}

// Checkpoint overwrites the job's opaque checkpoint blob. Valid only when
// the caller currently owns the job.
func (r *JobRepo) Checkpoint(ctx context.Context, jobID, workerID string, checkpoint []byte) error {
	res := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("job_id = ? AND worker_id = ?", jobID, workerID).
		Updates(map[string]interface{}{
			"checkpoint": checkpoint,
			"updated_at": time.Now().UTC(),
		})
	return rejectIfNoRows(res, jobID)
}

// ReclaimableForWorker returns jobs in claimed|running owned by the given
// worker, for C4's reclamation pass.
func (r *JobRepo) ReclaimableForWorker(ctx context.Context, tx *gorm.DB, workerID string) ([]domain.Job, error) {
	var jobs []domain.Job
	err := tx.WithContext(ctx).
		Where("worker_id = ? AND status IN ?", workerID, []string{domain.JobStatusClaimed, domain.JobStatusRunning}).
		Find(&jobs).Error
	return jobs, err
}

func rejectIfNoRows(res *gorm.DB, jobID string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.New(http.StatusPreconditionFailed, "precondition_failed",
			errors.New("job "+jobID+" is not in the expected state or not owned by caller"))
	}
	return nil
}
