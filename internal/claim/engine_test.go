package claim_test

import (
	"context"
	"testing"

	"github.com/latticedata/coordinator/internal/claim"
	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/repos"
	"github.com/latticedata/coordinator/internal/repos/testutil"
)

func TestEngine_ClaimThenStartThenComplete(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	jobs := repos.NewJobRepo(db)
	workers := repos.NewWorkerRepo(db)
	engine := claim.New(jobs, workers, nil)
	ctx := context.Background()

	job := testutil.NewJob("ingest_csv", nil)
	if err := jobs.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	claimed, err := engine.Claim(ctx, "worker-1", []string{"ingest_csv"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != job.ID {
		t.Fatalf("expected to claim %s", job.ID)
	}

	if err := engine.Start(ctx, job.ID, "worker-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Complete(ctx, job.ID, "worker-1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := jobs.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.JobStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.WorkerID != nil {
		t.Fatalf("expected worker_id cleared on completion")
	}
}

func TestEngine_Complete_RejectsNonOwner(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	jobs := repos.NewJobRepo(db)
	workers := repos.NewWorkerRepo(db)
	engine := claim.New(jobs, workers, nil)
	ctx := context.Background()

	job := testutil.NewJob("ingest_csv", nil)
	if err := jobs.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := engine.Claim(ctx, "worker-1", []string{"ingest_csv"}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := engine.Start(ctx, job.ID, "worker-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := engine.Complete(ctx, job.ID, "worker-2"); err == nil {
		t.Fatalf("expected precondition_failed for non-owner completion")
	}
}

func TestEngine_Claim_NoEligibleJobReturnsNil(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	jobs := repos.NewJobRepo(db)
	workers := repos.NewWorkerRepo(db)
	engine := claim.New(jobs, workers, nil)
	ctx := context.Background()

	claimed, err := engine.Claim(ctx, "worker-1", []string{"ingest_csv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed != nil {
		t.Fatalf("expected nil job when none eligible")
	}
}
