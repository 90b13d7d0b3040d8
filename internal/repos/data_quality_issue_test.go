package repos_test

import (
	"context"
	"testing"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/repos"
	"github.com/latticedata/coordinator/internal/repos/testutil"
)

func newIssue(jobID string) *domain.DataQualityIssue {
	return &domain.DataQualityIssue{
		JobID:          jobID,
		SourceRecordID: "rec-1",
		IssueType:      "schema_mismatch",
		Severity:       domain.DQSeverityWarning,
	}
}

func TestDataQualityIssueRepo_Resolve_MapsActionToStatus(t *testing.T) {
	db := testutil.Tx(t, testutil.DB(t))
	repo := repos.NewDataQualityIssueRepo(db)
	ctx := context.Background()

	cases := []struct {
		action string
		want   string
	}{
		{"auto_fix", domain.DQResolutionAutoFixed},
		{"ignore", domain.DQResolutionIgnored},
		{"manual", domain.DQResolutionResolved},
	}

	for _, tc := range cases {
		issue := newIssue("job-1")
		if err := repo.Create(ctx, issue); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Resolve(ctx, issue.ID.String(), tc.action, "note", "operator-1"); err != nil {
			t.Fatalf("resolve(%s): %v", tc.action, err)
		}
		got, err := repo.List(ctx, tc.want, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		found := false
		for _, i := range got {
			if i.ID == issue.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("action %q: expected resolution_status %q, not found in list", tc.action, tc.want)
		}
	}
}
