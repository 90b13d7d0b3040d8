package progress

import (
	"context"
	"time"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/platform/logger"
	"github.com/latticedata/coordinator/internal/repos"
)

// LogBatcher buffers job log lines and flushes them in batches over a
// buffered channel: the worker path that calls Enqueue never blocks on
// store latency.
type LogBatcher struct {
	logs     *repos.JobLogRepo
	buffer   chan domain.JobLog
	log      *logger.Logger
	interval time.Duration
	maxBatch int
}

func NewLogBatcher(logs *repos.JobLogRepo, depth, maxBatch int, interval time.Duration, baseLog *logger.Logger) *LogBatcher {
	if depth <= 0 {
		depth = 4096
	}
	if maxBatch <= 0 {
		maxBatch = 100
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &LogBatcher{
		logs:     logs,
		buffer:   make(chan domain.JobLog, depth),
		log:      baseLog.With("component", "LogBatcher"),
		interval: interval,
		maxBatch: maxBatch,
	}
}

// Enqueue is non-blocking; under sustained overload, log lines are
// dropped rather than slowing the worker's progress-report path.
func (b *LogBatcher) Enqueue(line domain.JobLog) {
	select {
	case b.buffer <- line:
	default:
		b.log.Warn("log buffer saturated, dropping line", "job_id", line.JobID)
	}
}

// Run flushes buffered lines on a fixed interval or once maxBatch lines
// accumulate, whichever comes first, until ctx is cancelled.
func (b *LogBatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	batch := make([]domain.JobLog, 0, b.maxBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := b.logs.AppendBatch(ctx, batch); err != nil {
			b.log.Error("failed to flush job log batch", "error", err.Error(), "count", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-ticker.C:
			flush()
		case line := <-b.buffer:
			batch = append(batch, line)
			if len(batch) >= b.maxBatch {
				flush()
			}
		}
	}
}
