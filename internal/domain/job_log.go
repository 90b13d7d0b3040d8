package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	LogLevelDebug    = "DEBUG"
	LogLevelInfo     = "INFO"
	LogLevelWarning  = "WARNING"
	LogLevelError    = "ERROR"
	LogLevelCritical = "CRITICAL"
)

// JobLog is a structured execution log line reported by the owning worker.
// The coordinator stores these but never inspects them for decisions.
type JobLog struct {
	ID        uuid.UUID `gorm:"column:log_id;type:uuid;default:gen_random_uuid();primaryKey" json:"log_id"`
	JobID     string    `gorm:"column:job_id;type:varchar(26);not null;index" json:"job_id"`
	Level     string    `gorm:"column:level;not null" json:"level"`
	Message   string    `gorm:"column:message;not null" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (JobLog) TableName() string { return "job_logs" }
