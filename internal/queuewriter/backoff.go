package queuewriter

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds the exponential back-off applied to a message that
// fails to insert, with jitter to avoid synchronized retries across the
// queue writer's single-message redelivery path.
type RetryPolicy struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   30 * time.Second,
		MaxRetries: 5,
	}
}

// computeBackoff returns an exponential delay with full jitter, clamped to
// [BaseDelay, MaxDelay].
func computeBackoff(p RetryPolicy, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	raw := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if raw > float64(p.MaxDelay) {
		raw = float64(p.MaxDelay)
	}
	jittered := time.Duration(rand.Int63n(int64(raw) + 1))
	if jittered < p.BaseDelay {
		jittered = p.BaseDelay
	}
	return jittered
}
