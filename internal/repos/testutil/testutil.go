// Package testutil provides the repos package's real-Postgres test harness.
// Integration tests are gated behind TEST_POSTGRES_DSN so the suite runs
// clean in environments without a database, instead of mocking gorm.
package testutil

import (
	"os"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/latticedata/coordinator/internal/domain"
)

var (
	once   sync.Once
	sharedDB *gorm.DB
)

// DB returns a shared gorm connection for repo integration tests, skipping
// the test if TEST_POSTGRES_DSN is unset.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}

	once.Do(func() {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err != nil {
			tb.Fatalf("connect to test postgres: %v", err)
		}
		if err := db.AutoMigrate(
			&domain.Job{},
			&domain.Worker{},
			&domain.DataQualityIssue{},
			&domain.JobLog{},
			&domain.DeadLetter{},
		); err != nil {
			tb.Fatalf("automigrate test schema: %v", err)
		}
		sharedDB = db
	})
	return sharedDB
}

// Tx wraps the test body in a transaction that is always rolled back, so
// tests never leave residue in the shared test database regardless of
// outcome.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
