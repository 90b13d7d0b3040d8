package liveness_test

import (
	"context"
	"testing"
	"time"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/liveness"
	"github.com/latticedata/coordinator/internal/repos"
	"github.com/latticedata/coordinator/internal/repos/testutil"
)

func TestPass_ReclaimsJobFromStaleWorkerWithRetryBudget(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	jobs := repos.NewJobRepo(db)
	workers := repos.NewWorkerRepo(db)
	ctx := context.Background()

	job := testutil.NewJob("ingest_csv", func(j *domain.Job) { j.MaxRetries = 1 })
	if err := jobs.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	claimed, err := jobs.ClaimNext(ctx, "worker-dead", []string{"ingest_csv"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	stale := testutil.NewWorker("worker-dead", []string{"ingest_csv"}, func(w *domain.Worker) {
		w.LastHeartbeat = time.Now().UTC().Add(-time.Hour)
	})
	if err := db.Create(stale).Error; err != nil {
		t.Fatalf("seed stale worker: %v", err)
	}

	cfg := liveness.Config{StaleThreshold: 5 * time.Minute, ReclamationCadence: time.Minute}
	loop := liveness.New(db, jobs, workers, cfg, mustLogger(t), nil)
	if err := loop.Pass(ctx); err != nil {
		t.Fatalf("pass: %v", err)
	}

	gotJob, err := jobs.GetByID(ctx, claimed.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if gotJob.Status != domain.JobStatusPending || gotJob.RetryCount != 1 {
		t.Fatalf("expected pending retry_count=1, got status=%s retry_count=%d", gotJob.Status, gotJob.RetryCount)
	}

	gotWorker, err := workers.GetByID(ctx, "worker-dead")
	if err != nil {
		t.Fatalf("get worker: %v", err)
	}
	if gotWorker.Status != domain.WorkerStatusOffline {
		t.Fatalf("expected worker offline, got %s", gotWorker.Status)
	}
}
