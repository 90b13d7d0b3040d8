// Package queuewriter implements C2: a single-consumer goroutine that
// drains the ingress hand-off and performs the idempotent insert into the
// store, with exponential back-off on transient failure and dead-lettering
// once the retry budget is exhausted.
package queuewriter

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/ingress"
	"github.com/latticedata/coordinator/internal/platform/logger"
	"github.com/latticedata/coordinator/internal/repos"
)

type Writer struct {
	jobs        *repos.JobRepo
	deadLetters *repos.DeadLetterRepo
	policy      RetryPolicy
	log         *logger.Logger
}

func New(jobs *repos.JobRepo, deadLetters *repos.DeadLetterRepo, policy RetryPolicy, log *logger.Logger) *Writer {
	return &Writer{
		jobs:        jobs,
		deadLetters: deadLetters,
		policy:      policy,
		log:         log.With("component", "QueueWriter"),
	}
}

// Run drains the hand-off until it is closed. One message is processed at
// a time (single concurrency per spec, preserving first-write-wins under
// retry); the store's job_id uniqueness means a multi-consumer writer
// would still be safe, but is not needed here.
func (w *Writer) Run(ctx context.Context, handoff <-chan ingress.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-handoff:
			if !ok {
				return
			}
			w.process(ctx, msg)
		}
	}
}

func (w *Writer) process(ctx context.Context, msg ingress.Message) {
	job := &domain.Job{
		ID:         msg.JobID,
		JobType:    msg.JobType,
		Status:     domain.JobStatusPending,
		Config:     datatypes.JSON(msg.Config),
		MaxRetries: msg.MaxRetries,
		CreatedAt:  msg.CreatedAt,
		UpdatedAt:  msg.CreatedAt,
	}

	attempt := 0
	for {
		attempt++
		err := w.jobs.Enqueue(ctx, job)
		if err == nil {
			return
		}
		w.log.Warn("enqueue attempt failed", "job_id", msg.JobID, "attempt", attempt, "error", err.Error())
		if attempt > w.policy.MaxRetries {
			w.deadLetter(ctx, msg, err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(computeBackoff(w.policy, attempt)):
		}
	}
}

func (w *Writer) deadLetter(ctx context.Context, msg ingress.Message, cause error) {
	dl := &domain.DeadLetter{
		JobID:    msg.JobID,
		JobType:  msg.JobType,
		Config:   datatypes.JSON(msg.Config),
		Reason:   cause.Error(),
		Attempts: w.policy.MaxRetries + 1,
	}
	if err := w.deadLetters.Create(ctx, dl); err != nil {
		w.log.Error("failed to dead-letter message", "job_id", msg.JobID, "error", err.Error())
	}
}
