package liveness_test

import (
	"testing"

	"github.com/latticedata/coordinator/internal/platform/logger"
)

func mustLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("build logger: %v", err)
	}
	return log
}
