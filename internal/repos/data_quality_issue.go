package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/latticedata/coordinator/internal/domain"
)

type DataQualityIssueRepo struct {
	db *gorm.DB
}

func NewDataQualityIssueRepo(db *gorm.DB) *DataQualityIssueRepo {
	return &DataQualityIssueRepo{db: db}
}

func (r *DataQualityIssueRepo) Create(ctx context.Context, issue *domain.DataQualityIssue) error {
	if issue.ResolutionStatus == "" {
		issue.ResolutionStatus = domain.DQResolutionPending
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(issue).Error
}

func (r *DataQualityIssueRepo) List(ctx context.Context, status string, limit int) ([]domain.DataQualityIssue, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("resolution_status = ?", status)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var issues []domain.DataQualityIssue
	err := q.Limit(limit).Find(&issues).Error
	return issues, err
}

// resolutionStatusForAction maps the caller-supplied action to the
// resolution_status it produces; an action other than auto_fix/ignore is
// treated as a plain manual resolution.
func resolutionStatusForAction(action string) string {
	switch action {
	case "auto_fix":
		return domain.DQResolutionAutoFixed
	case "ignore":
		return domain.DQResolutionIgnored
	default:
		return domain.DQResolutionResolved
	}
}

func (r *DataQualityIssueRepo) Resolve(ctx context.Context, issueID, action, notes, resolvedBy string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.DataQualityIssue{}).
		Where("issue_id = ?", issueID).
		Updates(map[string]interface{}{
			"resolution_status": resolutionStatusForAction(action),
			"resolution_action": action,
			"resolution_notes":  notes,
			"resolved_by":       resolvedBy,
			"resolved_at":       now,
		}).Error
}
