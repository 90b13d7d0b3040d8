package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	WorkerStatusActive  = "active"
	WorkerStatusIdle    = "idle"
	WorkerStatusOffline = "offline"
	WorkerStatusError   = "error"
)

// Worker is a registered execution agent. It is upserted on first heartbeat
// and never deleted; C4 transitions it to offline when it goes stale.
type Worker struct {
	ID            string         `gorm:"column:worker_id;type:varchar(255);primaryKey" json:"worker_id"`
	Hostname      string         `gorm:"column:hostname" json:"hostname,omitempty"`
	IPAddress     string         `gorm:"column:ip_address" json:"ip_address,omitempty"`
	Capabilities  datatypes.JSON `gorm:"column:capabilities;type:jsonb" json:"capabilities"`
	Status        string         `gorm:"column:status;not null;index" json:"status"`
	LastHeartbeat time.Time      `gorm:"column:last_heartbeat;not null;index" json:"last_heartbeat"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Worker) TableName() string { return "workers" }
