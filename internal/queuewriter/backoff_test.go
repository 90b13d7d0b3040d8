package queuewriter

import (
	"testing"
	"time"
)

func TestComputeBackoff_ClampedToMaxDelay(t *testing.T) {
	p := RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: 500 * time.Millisecond, MaxRetries: 10}
	for attempt := 1; attempt <= 20; attempt++ {
		d := computeBackoff(p, attempt)
		if d > p.MaxDelay {
			t.Fatalf("attempt %d: backoff %v exceeds max delay %v", attempt, d, p.MaxDelay)
		}
		if d < p.BaseDelay {
			t.Fatalf("attempt %d: backoff %v below base delay %v", attempt, d, p.BaseDelay)
		}
	}
}

func TestComputeBackoff_GrowsWithAttempt(t *testing.T) {
	p := RetryPolicy{BaseDelay: 10 * time.Millisecond, MaxDelay: 10 * time.Second, MaxRetries: 10}
	small := computeBackoff(p, 1)
	large := computeBackoff(p, 8)
	if large < small {
		t.Fatalf("backoff for attempt 8 (%v) is below backoff for attempt 1 (%v)", large, small)
	}
}
