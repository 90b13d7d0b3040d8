package liveness

import (
	"hash/fnv"

	"gorm.io/gorm"
)

// advisoryKey64 hashes a namespace into a 64-bit key for
// pg_advisory_xact_lock, so only one coordinator instance runs the
// reclamation pass at a time.
func advisoryKey64(namespace string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespace))
	return int64(h.Sum64())
}

// advisoryXactLock blocks until the transaction-scoped advisory lock is
// held; it is automatically released when tx commits or rolls back.
func advisoryXactLock(tx *gorm.DB, namespace string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryKey64(namespace)).Error
}
