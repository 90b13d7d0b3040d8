package app

import (
	"time"

	"github.com/latticedata/coordinator/internal/liveness"
	"github.com/latticedata/coordinator/internal/platform/envutil"
	"github.com/latticedata/coordinator/internal/store/postgres"
)

// Config aggregates every env-driven knob the composition root needs.
// Each subsystem keeps its own ConfigFromEnv/DefaultConfig where one
// already exists (postgres, liveness); the rest live here.
type Config struct {
	Env      string
	HTTPAddr string

	Store    postgres.Config
	Liveness liveness.Config

	RequestTimeout time.Duration

	IngressDepth       int
	QueueWriterRetries int
	DefaultMaxRetries  int

	LogBatchDepth    int
	LogBatchMaxBatch int
	LogBatchInterval time.Duration

	CORSOrigins string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisQueueKey string
	ConsumerID    string

	OtelEnabled     bool
	OtelServiceName string
}

func ConfigFromEnv() Config {
	liveCfg := liveness.DefaultConfig()
	liveCfg.StaleThreshold = envutil.Duration("COORDINATOR_STALE_THRESHOLD", liveCfg.StaleThreshold)
	liveCfg.ReclamationCadence = envutil.Duration("COORDINATOR_RECLAIM_INTERVAL", liveCfg.ReclamationCadence)

	return Config{
		Env:      envutil.String("COORDINATOR_ENV", "development"),
		HTTPAddr: envutil.String("COORDINATOR_HTTP_ADDR", ":8080"),

		Store:    postgres.ConfigFromEnv(),
		Liveness: liveCfg,

		RequestTimeout: envutil.Duration("COORDINATOR_REQUEST_TIMEOUT", 10*time.Second),

		IngressDepth:       envutil.Int("COORDINATOR_HANDOFF_DEPTH", 1024),
		QueueWriterRetries: envutil.Int("COORDINATOR_C2_RETRY_BUDGET", 5),
		DefaultMaxRetries:  envutil.Int("COORDINATOR_DEFAULT_MAX_RETRIES", 0),

		LogBatchDepth:    envutil.Int("COORDINATOR_LOGBATCH_DEPTH", 4096),
		LogBatchMaxBatch: envutil.Int("COORDINATOR_LOGBATCH_MAX_BATCH", 100),
		LogBatchInterval: envutil.Duration("COORDINATOR_LOGBATCH_INTERVAL", time.Second),

		RedisEnabled:  envutil.String("COORDINATOR_REDIS_ADDR", "") != "",
		RedisAddr:     envutil.String("COORDINATOR_REDIS_ADDR", ""),
		RedisPassword: envutil.String("COORDINATOR_REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("COORDINATOR_REDIS_DB", 0),
		RedisQueueKey: envutil.String("COORDINATOR_REDIS_QUEUE_KEY", "coordinator:submissions"),
		ConsumerID:    envutil.String("COORDINATOR_REDIS_CONSUMER_ID", "coordinator-1"),

		OtelEnabled:     envutil.String("OTEL_ENABLED", "") != "",
		OtelServiceName: envutil.String("OTEL_SERVICE_NAME", "coordinator"),
	}
}
