// Package ingress implements the submission hand-off (C1): it accepts a
// job submission and enqueues it into a buffered channel consumed by
// internal/queuewriter, so the request path never blocks on store latency.
package ingress

import (
	"context"
	"errors"
	"time"

	"github.com/latticedata/coordinator/internal/ids"
)

var (
	ErrInvalidJobType   = errors.New("job_type must not be empty")
	ErrHandoffSaturated = errors.New("submission hand-off is saturated")
)

// Message is the envelope handed off to C2, matching the wire contract for
// asynchronous ingress in full (job_id, job_type, config, max_retries,
// created_at).
type Message struct {
	JobID      string
	JobType    string
	Config     []byte
	MaxRetries int
	CreatedAt  time.Time
}

type Ingress struct {
	handoff           chan Message
	defaultMaxRetries int
}

func New(depth, defaultMaxRetries int) *Ingress {
	if depth <= 0 {
		depth = 1024
	}
	return &Ingress{handoff: make(chan Message, depth), defaultMaxRetries: defaultMaxRetries}
}

// Handoff exposes the channel for the queue writer to drain; it is not
// closed by Submit, only by the owning app on shutdown.
func (i *Ingress) Handoff() <-chan Message {
	return i.handoff
}

// Submit generates a fresh sortable job_id and enqueues the message,
// returning the instant the hand-off durably accepts it — not when the
// message reaches the store. Never blocks: a full hand-off fails fast
// with ErrHandoffSaturated. maxRetries is optional; a nil value falls back
// to the configured default retry budget.
func (i *Ingress) Submit(jobType string, config []byte, maxRetries *int) (string, error) {
	if jobType == "" {
		return "", ErrInvalidJobType
	}
	retries := i.defaultMaxRetries
	if maxRetries != nil {
		retries = *maxRetries
	}
	msg := Message{
		JobID:      ids.NewJobID(),
		JobType:    jobType,
		Config:     config,
		MaxRetries: retries,
		CreatedAt:  time.Now().UTC(),
	}
	select {
	case i.handoff <- msg:
		return msg.JobID, nil
	default:
		return "", ErrHandoffSaturated
	}
}

// Enqueue accepts an already-built message, for alternative ingress paths
// (internal/messaging/redisqueue) that carry their own job_id from the
// envelope rather than minting one here. Blocks until ctx is done or the
// message is accepted, since a durable queue consumer should apply
// back-pressure rather than drop messages.
func (i *Ingress) Enqueue(ctx context.Context, msg Message) error {
	select {
	case i.handoff <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals the queue writer to drain remaining messages and stop.
func (i *Ingress) Close() {
	close(i.handoff)
}
