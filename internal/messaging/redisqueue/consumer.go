// Package redisqueue implements an alternative durable ingress path: an
// at-least-once consumer over a Redis list, feeding the same idempotent
// insert path the channel-based ingress uses. Uses github.com/redis/go-redis/v9's
// reliable-queue pattern (BRPOPLPUSH into a per-consumer processing list,
// acknowledged by LREM once the message is durably handed off).
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/latticedata/coordinator/internal/ingress"
	"github.com/latticedata/coordinator/internal/platform/logger"
)

type Consumer struct {
	client            *redis.Client
	queueKey          string
	processingKey     string
	blockTimeout      time.Duration
	defaultMaxRetries int
	log               *logger.Logger
}

func NewConsumer(client *redis.Client, queueKey, consumerID string, defaultMaxRetries int, log *logger.Logger) *Consumer {
	return &Consumer{
		client:            client,
		queueKey:          queueKey,
		processingKey:     queueKey + ":processing:" + consumerID,
		blockTimeout:      5 * time.Second,
		defaultMaxRetries: defaultMaxRetries,
		log:               log.With("component", "RedisQueueConsumer"),
	}
}

type envelope struct {
	JobID      string          `json:"job_id"`
	JobType    string          `json:"job_type"`
	Config     json.RawMessage `json:"config"`
	MaxRetries *int            `json:"max_retries"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Run blocks the calling goroutine, forwarding decoded messages into the
// shared ingress hand-off until ctx is cancelled. A message that fails to
// decode is removed from the processing list and logged rather than
// blocking the queue indefinitely.
func (c *Consumer) Run(ctx context.Context, in *ingress.Ingress) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw, err := c.client.BRPopLPush(ctx, c.queueKey, c.processingKey, c.blockTimeout).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("brpoplpush failed", "error", err.Error())
			time.Sleep(time.Second)
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			c.log.Error("dropping undecodable message", "error", err.Error())
			c.client.LRem(ctx, c.processingKey, 1, raw)
			continue
		}

		retries := c.defaultMaxRetries
		if env.MaxRetries != nil {
			retries = *env.MaxRetries
		}
		msg := ingress.Message{
			JobID:      env.JobID,
			JobType:    env.JobType,
			Config:     env.Config,
			MaxRetries: retries,
			CreatedAt:  env.CreatedAt,
		}
		if err := in.Enqueue(ctx, msg); err != nil {
			return err
		}
		c.client.LRem(ctx, c.processingKey, 1, raw)
	}
}
