package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/latticedata/coordinator/internal/domain"
)

type JobLogRepo struct {
	db *gorm.DB
}

func NewJobLogRepo(db *gorm.DB) *JobLogRepo {
	return &JobLogRepo{db: db}
}

// AppendBatch inserts a batch of log lines in one statement, the sink for
// internal/progress's buffered log writer.
func (r *JobLogRepo) AppendBatch(ctx context.Context, logs []domain.JobLog) error {
	if len(logs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range logs {
		if logs[i].CreatedAt.IsZero() {
			logs[i].CreatedAt = now
		}
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

func (r *JobLogRepo) ListForJob(ctx context.Context, jobID string, limit int) ([]domain.JobLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	var logs []domain.JobLog
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
