package redisqueue_test

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/latticedata/coordinator/internal/ingress"
	"github.com/latticedata/coordinator/internal/messaging/redisqueue"
	"github.com/latticedata/coordinator/internal/platform/logger"
)

func TestConsumer_ForwardsDecodedMessageToIngress(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redisqueue integration tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	queueKey := "coordinator:test:submissions"
	t.Cleanup(func() { client.Del(context.Background(), queueKey) })

	payload, _ := json.Marshal(map[string]interface{}{
		"job_id":      "01HZZZEXAMPLE000000000001",
		"job_type":    "ingest_csv",
		"config":      map[string]int{"k": 1},
		"max_retries": 2,
		"created_at":  time.Now().UTC(),
	})
	if err := client.LPush(context.Background(), queueKey, payload).Err(); err != nil {
		t.Fatalf("seed queue: %v", err)
	}

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	ig := ingress.New(4, 0)
	consumer := redisqueue.NewConsumer(client, queueKey, "test-consumer", 0, log)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go consumer.Run(ctx, ig)

	select {
	case msg := <-ig.Handoff():
		if msg.JobType != "ingest_csv" {
			t.Fatalf("unexpected job_type: %s", msg.JobType)
		}
		if msg.MaxRetries != 2 {
			t.Fatalf("unexpected max_retries: %d", msg.MaxRetries)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message to reach ingress handoff")
	}
}
