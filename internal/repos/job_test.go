package repos_test

import (
	"context"
	"sync"
	"testing"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/repos"
	"github.com/latticedata/coordinator/internal/repos/testutil"
)

func TestJobRepo_ClaimNext_FIFOWithinCapabilitySet(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	repo := repos.NewJobRepo(db)
	ctx := context.Background()

	j1 := testutil.NewJob("ingest_csv", nil)
	j2 := testutil.NewJob("ingest_csv", nil)
	j3 := testutil.NewJob("ingest_json", nil)
	for _, j := range []*domain.Job{j1, j2, j3} {
		if err := repo.Enqueue(ctx, j); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	claimed, err := repo.ClaimNext(ctx, "worker-1", []string{"ingest_csv"})
	if err != nil {
		t.Fatalf("claim next: %v", err)
	}
	if claimed.ID != j1.ID {
		t.Fatalf("expected FIFO claim of %s, got %s", j1.ID, claimed.ID)
	}
	if claimed.Status != domain.JobStatusClaimed {
		t.Fatalf("expected status claimed, got %s", claimed.Status)
	}
}

func TestJobRepo_ClaimNext_CapabilityMismatchReturnsNoWork(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	repo := repos.NewJobRepo(db)
	ctx := context.Background()

	job := testutil.NewJob("ingest_xml", nil)
	if err := repo.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	_, err := repo.ClaimNext(ctx, "worker-2", []string{"ingest_csv"})
	if err != repos.ErrNoJobAvailable {
		t.Fatalf("expected ErrNoJobAvailable, got %v", err)
	}
}

func TestJobRepo_ClaimNext_ExactlyOneWinnerUnderConcurrency(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewJobRepo(db)
	ctx := context.Background()

	job := testutil.NewJob("ingest_csv", nil)
	if err := repo.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	t.Cleanup(func() {
		db.Where("job_id = ?", job.ID).Delete(&domain.Job{})
	})

	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			claimed, err := repo.ClaimNext(ctx, "worker-concurrent", []string{"ingest_csv"})
			if err == nil && claimed != nil {
				wins <- claimed.ID
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one winning claim, got %d", count)
	}
}

func TestJobRepo_Fail_RetriesUntilBudgetExhausted(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	repo := repos.NewJobRepo(db)
	ctx := context.Background()

	job := testutil.NewJob("ingest_csv", func(j *domain.Job) { j.MaxRetries = 1 })
	if err := repo.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	claimed, err := repo.ClaimNext(ctx, "worker-1", []string{"ingest_csv"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := repo.Start(ctx, claimed.ID, "worker-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := repo.Fail(ctx, claimed.ID, "worker-1", "boom"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	got, err := repo.GetByID(ctx, claimed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.JobStatusPending || got.RetryCount != 1 {
		t.Fatalf("expected pending retry_count=1, got status=%s retry_count=%d", got.Status, got.RetryCount)
	}

	reclaimed, err := repo.ClaimNext(ctx, "worker-2", []string{"ingest_csv"})
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if err := repo.Start(ctx, reclaimed.ID, "worker-2"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := repo.Fail(ctx, reclaimed.ID, "worker-2", "boom again"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	got, err = repo.GetByID(ctx, claimed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.JobStatusFailed {
		t.Fatalf("expected terminal failed after exhausting retries, got %s", got.Status)
	}
}
