package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpH "github.com/latticedata/coordinator/internal/httpapi/handlers"
	httpMW "github.com/latticedata/coordinator/internal/httpapi/middleware"
	"github.com/latticedata/coordinator/internal/metrics"
	"github.com/latticedata/coordinator/internal/platform/logger"
)

type RouterConfig struct {
	Log                *logger.Logger
	Metrics            *metrics.Metrics
	RequestTimeout     time.Duration
	HealthHandler      *httpH.HealthHandler
	JobHandler         *httpH.JobHandler
	WorkerHandler      *httpH.WorkerHandler
	DataQualityHandler *httpH.DataQualityHandler
}

// NewRouter wires the middleware chain and route table covering job
// submission, claiming, lifecycle transitions (start/complete/fail/cancel),
// heartbeat/checkpoint/log reporting, worker registration, and the
// data-quality issue surface.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))
	}

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.JobHandler != nil {
		r.POST("/jobs/submit", cfg.JobHandler.Submit)
		r.POST("/jobs/claim", cfg.JobHandler.Claim)
		r.GET("/jobs", cfg.JobHandler.List)
		r.GET("/jobs/:id/status", cfg.JobHandler.Status)
		r.POST("/jobs/:id/start", cfg.JobHandler.Start)
		r.POST("/jobs/:id/complete", cfg.JobHandler.Complete)
		r.POST("/jobs/:id/fail", cfg.JobHandler.Fail)
		r.POST("/jobs/:id/cancel", cfg.JobHandler.Cancel)
		r.POST("/jobs/:id/heartbeat", cfg.JobHandler.Heartbeat)
		r.POST("/jobs/:id/checkpoint", cfg.JobHandler.Checkpoint)
		r.POST("/jobs/:id/log", cfg.JobHandler.Log)
	}

	if cfg.WorkerHandler != nil {
		r.POST("/workers/heartbeat", cfg.WorkerHandler.Heartbeat)
		r.GET("/workers", cfg.WorkerHandler.List)
	}

	if cfg.DataQualityHandler != nil {
		r.POST("/jobs/:id/issues", cfg.DataQualityHandler.Report)
		r.GET("/data-quality/issues", cfg.DataQualityHandler.List)
		r.POST("/data-quality/issues/:id/resolve", cfg.DataQualityHandler.Resolve)
	}

	return r
}
