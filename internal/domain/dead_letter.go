package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DeadLetter holds a submission message C2 could not durably insert after
// exhausting its retry budget, so an operator can inspect and replay it.
type DeadLetter struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID     string         `gorm:"column:job_id;type:varchar(26);not null;index" json:"job_id"`
	JobType   string         `gorm:"column:job_type;not null" json:"job_type"`
	Config    datatypes.JSON `gorm:"column:config;type:jsonb" json:"config"`
	Reason    string         `gorm:"column:reason;not null" json:"reason"`
	Attempts  int            `gorm:"column:attempts;not null" json:"attempts"`
	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
}

func (DeadLetter) TableName() string { return "dead_letters" }
