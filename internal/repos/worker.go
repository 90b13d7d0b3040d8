package repos

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/latticedata/coordinator/internal/domain"
)

type WorkerRepo struct {
	db *gorm.DB
}

func NewWorkerRepo(db *gorm.DB) *WorkerRepo {
	return &WorkerRepo{db: db}
}

// Heartbeat is an idempotent upsert of worker liveness: creates the row on
// first contact, otherwise bumps last_heartbeat and refreshes advertised
// capabilities/status.
func (r *WorkerRepo) Heartbeat(ctx context.Context, w *domain.Worker) error {
	now := time.Now().UTC()
	w.LastHeartbeat = now
	w.UpdatedAt = now
	if w.Status == "" {
		w.Status = domain.WorkerStatusActive
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "worker_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"hostname", "ip_address", "capabilities", "status", "last_heartbeat", "metadata", "updated_at",
		}),
	}).Create(w).Error
}

func (r *WorkerRepo) ListActive(ctx context.Context) ([]domain.Worker, error) {
	var workers []domain.Worker
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{domain.WorkerStatusActive, domain.WorkerStatusIdle}).
		Order("last_heartbeat DESC").
		Find(&workers).Error
	return workers, err
}

func (r *WorkerRepo) GetByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	var w domain.Worker
	err := r.db.WithContext(ctx).Where("worker_id = ?", workerID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// MarkStaleOffline transitions every worker whose last_heartbeat predates
// the cutoff from active|idle to offline, returning the affected worker
// ids for C4's subsequent reclamation step. Must be called within tx so
// the mark and the reclamation scan observe one consistent snapshot.
func (r *WorkerRepo) MarkStaleOffline(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]string, error) {
	var staleIDs []string
	err := tx.WithContext(ctx).Model(&domain.Worker{}).
		Where("status IN ? AND last_heartbeat < ?", []string{domain.WorkerStatusActive, domain.WorkerStatusIdle}, cutoff).
		Pluck("worker_id", &staleIDs).Error
	if err != nil {
		return nil, err
	}
	if len(staleIDs) == 0 {
		return nil, nil
	}
	err = tx.WithContext(ctx).Model(&domain.Worker{}).
		Where("worker_id IN ?", staleIDs).
		Updates(map[string]interface{}{
			"status":     domain.WorkerStatusOffline,
			"updated_at": time.Now().UTC(),
		}).Error
	return staleIDs, err
}
