package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/platform/logger"
	"github.com/latticedata/coordinator/internal/progress"
	"github.com/latticedata/coordinator/internal/repos"
	"github.com/latticedata/coordinator/internal/repos/testutil"
)

func TestReportIssue_ThenResolve_NoLongerListedAsPending(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	jobs := repos.NewJobRepo(db)
	workers := repos.NewWorkerRepo(db)
	issues := repos.NewDataQualityIssueRepo(db)
	logsRepo := repos.NewJobLogRepo(db)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	batcher := progress.NewLogBatcher(logsRepo, 16, 10, time.Second, log)
	pipeline := progress.New(jobs, workers, issues, batcher, nil)
	ctx := context.Background()

	job := testutil.NewJob("ingest_csv", nil)
	if err := jobs.Enqueue(ctx, job); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	issue := &domain.DataQualityIssue{
		JobID:          job.ID,
		SourceRecordID: "rec-1",
		IssueType:      "invalid_zip",
		Severity:       domain.DQSeverityWarning,
		InvalidValue:   "1478",
	}
	if err := pipeline.ReportIssue(ctx, issue); err != nil {
		t.Fatalf("report issue: %v", err)
	}

	pending, err := pipeline.ListIssues(ctx, domain.DQResolutionPending, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending issue, got %d", len(pending))
	}

	if err := pipeline.ResolveIssue(ctx, pending[0].ID.String(), "auto_fix", "", "admin"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	pending, err = pipeline.ListIssues(ctx, domain.DQResolutionPending, 10)
	if err != nil {
		t.Fatalf("list pending after resolve: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected 0 pending issues after resolve, got %d", len(pending))
	}
}
