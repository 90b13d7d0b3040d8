package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/latticedata/coordinator/internal/domain"
)

type DeadLetterRepo struct {
	db *gorm.DB
}

func NewDeadLetterRepo(db *gorm.DB) *DeadLetterRepo {
	return &DeadLetterRepo{db: db}
}

func (r *DeadLetterRepo) Create(ctx context.Context, dl *domain.DeadLetter) error {
	if dl.CreatedAt.IsZero() {
		dl.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(dl).Error
}

func (r *DeadLetterRepo) List(ctx context.Context, limit int) ([]domain.DeadLetter, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var dls []domain.DeadLetter
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&dls).Error
	return dls, err
}
