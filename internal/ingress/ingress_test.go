package ingress_test

import (
	"testing"

	"github.com/latticedata/coordinator/internal/ingress"
)

func TestSubmit_RejectsEmptyJobType(t *testing.T) {
	ig := ingress.New(4, 0)
	if _, err := ig.Submit("", []byte(`{}`), nil); err != ingress.ErrInvalidJobType {
		t.Fatalf("expected ErrInvalidJobType, got %v", err)
	}
}

func TestSubmit_ReturnsResourceExhaustedWhenSaturated(t *testing.T) {
	ig := ingress.New(1, 0)
	if _, err := ig.Submit("ingest_csv", []byte(`{}`), nil); err != nil {
		t.Fatalf("first submit should succeed: %v", err)
	}
	if _, err := ig.Submit("ingest_csv", []byte(`{}`), nil); err != ingress.ErrHandoffSaturated {
		t.Fatalf("expected ErrHandoffSaturated, got %v", err)
	}
}

func TestSubmit_NeverBlocksAndEnqueuesMessage(t *testing.T) {
	ig := ingress.New(2, 0)
	jobID, err := ig.Submit("ingest_csv", []byte(`{"k":1}`), nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	msg := <-ig.Handoff()
	if msg.JobID != jobID {
		t.Fatalf("expected handoff message job_id %s, got %s", jobID, msg.JobID)
	}
	if msg.JobType != "ingest_csv" {
		t.Fatalf("unexpected job_type: %s", msg.JobType)
	}
}

func TestSubmit_DefaultsMaxRetriesWhenUnset(t *testing.T) {
	ig := ingress.New(2, 3)
	if _, err := ig.Submit("ingest_csv", []byte(`{}`), nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	msg := <-ig.Handoff()
	if msg.MaxRetries != 3 {
		t.Fatalf("expected default max_retries 3, got %d", msg.MaxRetries)
	}
	explicit := 1
	if _, err := ig.Submit("ingest_csv", []byte(`{}`), &explicit); err != nil {
		t.Fatalf("submit: %v", err)
	}
	msg = <-ig.Handoff()
	if msg.MaxRetries != 1 {
		t.Fatalf("expected explicit max_retries 1, got %d", msg.MaxRetries)
	}
}
