package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DQSeverityWarning  = "warning"
	DQSeverityError    = "error"
	DQSeverityCritical = "critical"

	DQResolutionPending   = "pending"
	DQResolutionResolved  = "resolved"
	DQResolutionIgnored   = "ignored"
	DQResolutionAutoFixed = "auto_fixed"
)

// DataQualityIssue is a validation finding a worker emits while executing
// a job against the source dataset. raw_record is opaque captured context,
// never inspected by the coordinator.
type DataQualityIssue struct {
	ID               uuid.UUID      `gorm:"column:issue_id;type:uuid;default:gen_random_uuid();primaryKey" json:"issue_id"`
	JobID            string         `gorm:"column:job_id;type:varchar(26);not null;index" json:"job_id"`
	SourceRecordID   string         `gorm:"column:source_record_id;not null" json:"source_record_id"`
	IssueType        string         `gorm:"column:issue_type;not null" json:"issue_type"`
	Severity         string         `gorm:"column:severity;not null" json:"severity"`
	FieldName        string         `gorm:"column:field_name" json:"field_name,omitempty"`
	InvalidValue     string         `gorm:"column:invalid_value" json:"invalid_value,omitempty"`
	ExpectedFormat   string         `gorm:"column:expected_format" json:"expected_format,omitempty"`
	Message          string         `gorm:"column:message" json:"message,omitempty"`
	RawRecord        datatypes.JSON `gorm:"column:raw_record;type:jsonb" json:"raw_record,omitempty"`
	ResolutionStatus string         `gorm:"column:resolution_status;not null;index" json:"resolution_status"`
	ResolutionAction string         `gorm:"column:resolution_action" json:"resolution_action,omitempty"`
	ResolutionNotes  string         `gorm:"column:resolution_notes" json:"resolution_notes,omitempty"`
	ResolvedBy       string         `gorm:"column:resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time     `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt        time.Time      `gorm:"column:created_at;not null" json:"created_at"`
}

func (DataQualityIssue) TableName() string { return "data_quality_issues" }
