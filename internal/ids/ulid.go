// Package ids generates the sortable job identifiers used as the primary
// key of the jobs table: 26-character Crockford-base32 strings, a
// millisecond timestamp prefix followed by 80 bits of randomness, so that
// job_id ordering matches created_at ordering under a monotonic clock.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewJobID returns a fresh sortable identifier. Safe for concurrent use;
// two calls within the same millisecond from the same process still sort
// in call order thanks to the monotonic entropy source.
func NewJobID() string {
	return NewJobIDAt(time.Now())
}

// NewJobIDAt is NewJobID with an explicit timestamp, for deterministic tests.
func NewJobIDAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	return id.String()
}

// Less reports whether a sorts before b as job_ids (lexicographic, which
// for fixed-width ULIDs is also chronological).
func Less(a, b string) bool {
	return a < b
}
