package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Job status values, forming the state machine described in the claim
// engine design: pending -> claimed -> running -> completed|failed|cancelled.
const (
	JobStatusPending   = "pending"
	JobStatusClaimed   = "claimed"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// Job is a unit of ingestion work. job_type, config, and checkpoint are
// opaque to the coordinator; it never parses or validates their contents.
type Job struct {
	ID           string         `gorm:"column:job_id;type:varchar(26);primaryKey" json:"job_id"`
	JobType      string         `gorm:"column:job_type;not null;index" json:"job_type"`
	Status       string         `gorm:"column:status;not null;index" json:"status"`
	WorkerID     *string        `gorm:"column:worker_id;type:varchar(255)" json:"worker_id,omitempty"`
	Config       datatypes.JSON `gorm:"column:config;type:jsonb" json:"config"`
	Checkpoint   datatypes.JSON `gorm:"column:checkpoint;type:jsonb" json:"checkpoint,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;not null;index" json:"created_at"`
	ClaimedAt    *time.Time     `gorm:"column:claimed_at" json:"claimed_at,omitempty"`
	StartedAt    *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	RetryCount   int            `gorm:"column:retry_count;not null;default:0" json:"retry_count"`
	MaxRetries   int            `gorm:"column:max_retries;not null;default:0" json:"max_retries"`
	ErrorMessage *string        `gorm:"column:error_message" json:"error_message,omitempty"`
}

func (Job) TableName() string { return "jobs" }

// IsTerminal reports whether status is one the state machine never leaves.
func (j *Job) IsTerminal() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}
