package ids_test

import (
	"testing"
	"time"

	"github.com/latticedata/coordinator/internal/ids"
)

func TestNewJobID_MonotonicWithinSameMillisecond(t *testing.T) {
	now := time.Now()
	a := ids.NewJobIDAt(now)
	b := ids.NewJobIDAt(now)
	if !ids.Less(a, b) {
		t.Fatalf("expected %s < %s for two IDs minted at the same instant", a, b)
	}
}

func TestNewJobID_Length(t *testing.T) {
	id := ids.NewJobID()
	if len(id) != 26 {
		t.Fatalf("expected 26-char ULID, got %d chars: %s", len(id), id)
	}
}

func TestNewJobID_OrderedAcrossTime(t *testing.T) {
	t1 := time.Now()
	t2 := t1.Add(time.Second)
	a := ids.NewJobIDAt(t1)
	b := ids.NewJobIDAt(t2)
	if !ids.Less(a, b) {
		t.Fatalf("expected id minted earlier to sort before id minted later: %s vs %s", a, b)
	}
}
