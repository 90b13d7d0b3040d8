// Package app is the composition root: it wires the store, the five
// components (C1-C5), the HTTP surface, and observability into one
// runnable coordinator process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/latticedata/coordinator/internal/claim"
	"github.com/latticedata/coordinator/internal/httpapi"
	"github.com/latticedata/coordinator/internal/httpapi/handlers"
	"github.com/latticedata/coordinator/internal/ingress"
	"github.com/latticedata/coordinator/internal/liveness"
	"github.com/latticedata/coordinator/internal/messaging/redisqueue"
	"github.com/latticedata/coordinator/internal/metrics"
	"github.com/latticedata/coordinator/internal/observability"
	"github.com/latticedata/coordinator/internal/platform/logger"
	"github.com/latticedata/coordinator/internal/progress"
	"github.com/latticedata/coordinator/internal/queuewriter"
	"github.com/latticedata/coordinator/internal/repos"
	"github.com/latticedata/coordinator/internal/store/postgres"
)

type App struct {
	cfg    Config
	log    *logger.Logger
	store  *postgres.Service
	server *httpapi.Server

	ingress       *ingress.Ingress
	queueWriter   *queuewriter.Writer
	liveness      *liveness.Loop
	logBatcher    *progress.LogBatcher
	redisConsumer *redisqueue.Consumer
	metrics       *metrics.Metrics

	otelShutdown func(context.Context) error

	cancel context.CancelFunc
}

func New(cfg Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := postgres.New(cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	db := store.DB()
	jobRepo := repos.NewJobRepo(db)
	workerRepo := repos.NewWorkerRepo(db)
	issueRepo := repos.NewDataQualityIssueRepo(db)
	jobLogRepo := repos.NewJobLogRepo(db)
	deadLetterRepo := repos.NewDeadLetterRepo(db)

	m := metrics.New(prometheus.DefaultRegisterer)

	ing := ingress.New(cfg.IngressDepth, cfg.DefaultMaxRetries)

	policy := queuewriter.DefaultRetryPolicy()
	policy.MaxRetries = cfg.QueueWriterRetries
	qw := queuewriter.New(jobRepo, deadLetterRepo, policy, log)

	claimEngine := claim.New(jobRepo, workerRepo, m)

	liveLoop := liveness.New(db, jobRepo, workerRepo, cfg.Liveness, log, m)

	logBatcher := progress.NewLogBatcher(jobLogRepo, cfg.LogBatchDepth, cfg.LogBatchMaxBatch, cfg.LogBatchInterval, log)
	progressPipeline := progress.New(jobRepo, workerRepo, issueRepo, logBatcher, m)

	jobHandler := handlers.NewJobHandler(ing, claimEngine, progressPipeline)
	workerHandler := handlers.NewWorkerHandler(progressPipeline)
	dqHandler := handlers.NewDataQualityHandler(progressPipeline)
	healthHandler := handlers.NewHealthHandler()

	router := httpapi.RouterConfig{
		Log:                log,
		Metrics:            m,
		RequestTimeout:     cfg.RequestTimeout,
		HealthHandler:      healthHandler,
		JobHandler:         jobHandler,
		WorkerHandler:      workerHandler,
		DataQualityHandler: dqHandler,
	}
	server := httpapi.NewServer(router)

	var otelShutdown func(context.Context) error
	if cfg.OtelEnabled {
		otelShutdown = observability.InitOTel(context.Background(), log, observability.OtelConfig{
			ServiceName: cfg.OtelServiceName,
			Environment: cfg.Env,
		})
	}

	a := &App{
		cfg:          cfg,
		log:          log,
		store:        store,
		server:       server,
		ingress:      ing,
		queueWriter:  qw,
		liveness:     liveLoop,
		logBatcher:   logBatcher,
		otelShutdown: otelShutdown,
		metrics:      m,
	}

	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.redisConsumer = redisqueue.NewConsumer(client, cfg.RedisQueueKey, cfg.ConsumerID, cfg.DefaultMaxRetries, log)
	}

	return a, nil
}

// Run starts every background loop and blocks serving HTTP until ctx is
// cancelled. Shutdown order mirrors start order in reverse: stop
// accepting ingress, let the queue writer drain, then close the store.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go a.queueWriter.Run(ctx, a.ingress.Handoff())
	go a.liveness.Run(ctx)
	go a.logBatcher.Run(ctx)
	go a.sampleQueueDepth(ctx)
	if a.redisConsumer != nil {
		go func() {
			if err := a.redisConsumer.Run(ctx, a.ingress); err != nil && ctx.Err() == nil {
				a.log.Error("redis consumer stopped", "error", err.Error())
			}
		}()
	}

	a.log.Info("coordinator listening", "addr", a.cfg.HTTPAddr)
	srv := &http.Server{Addr: a.cfg.HTTPAddr, Handler: a.server.Engine}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sampleQueueDepth periodically reports the C1->C2 hand-off backlog so
// operators can see submission pressure building before the channel
// saturates and Submit starts failing with resource_exhausted.
func (a *App) sampleQueueDepth(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.metrics.QueueDepth.Set(float64(len(a.ingress.Handoff())))
		}
	}
}

func (a *App) Close(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	a.ingress.Close()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	a.log.Sync()
	return a.store.Close()
}
