package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/latticedata/coordinator/internal/claim"
	"github.com/latticedata/coordinator/internal/httpapi/response"
	"github.com/latticedata/coordinator/internal/ingress"
	"github.com/latticedata/coordinator/internal/platform/apierr"
	"github.com/latticedata/coordinator/internal/progress"
)

type JobHandler struct {
	ingress  *ingress.Ingress
	claim    *claim.Engine
	progress *progress.Pipeline
}

func NewJobHandler(ig *ingress.Ingress, c *claim.Engine, p *progress.Pipeline) *JobHandler {
	return &JobHandler{ingress: ig, claim: c, progress: p}
}

type submitRequest struct {
	JobType    string          `json:"job_type"`
	Config     json.RawMessage `json:"config"`
	MaxRetries *int            `json:"max_retries"`
}

// POST /jobs/submit
func (h *JobHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	jobID, err := h.ingress.Submit(req.JobType, req.Config, req.MaxRetries)
	if err != nil {
		switch {
		case errors.Is(err, ingress.ErrInvalidJobType):
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		case errors.Is(err, ingress.ErrHandoffSaturated):
			response.RespondError(c, http.StatusServiceUnavailable, "resource_exhausted", err)
		default:
			response.RespondError(c, http.StatusInternalServerError, "internal", err)
		}
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "status": "queued"})
}

type claimRequest struct {
	WorkerID     string   `json:"worker_id"`
	Capabilities []string `json:"capabilities"`
}

// POST /jobs/claim
func (h *JobHandler) Claim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	job, err := h.claim.Claim(c.Request.Context(), req.WorkerID, req.Capabilities)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if job == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"job_id":     job.ID,
		"job_type":   job.JobType,
		"config":     json.RawMessage(job.Config),
		"created_at": job.CreatedAt,
	})
}

// GET /jobs/{id}/status
func (h *JobHandler) Status(c *gin.Context) {
	jobID := c.Param("id")
	job, worker, err := h.progress.JobDetail(c.Request.Context(), jobID)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	payload := gin.H{"job": job}
	if worker != nil {
		payload["owner"] = gin.H{
			"worker_id":      worker.ID,
			"status":         worker.Status,
			"last_heartbeat": worker.LastHeartbeat,
		}
	}
	response.RespondOK(c, payload)
}

// GET /jobs?status=&limit=
func (h *JobHandler) List(c *gin.Context) {
	status := c.Query("status")
	limit := queryInt(c, "limit", 100)
	jobs, err := h.progress.ListJobs(c.Request.Context(), status, limit)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs, "count": len(jobs)})
}

type startRequest struct {
	WorkerID string `json:"worker_id"`
}

// POST /jobs/{id}/start
func (h *JobHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.claim.Start(c.Request.Context(), c.Param("id"), req.WorkerID); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// POST /jobs/{id}/complete
func (h *JobHandler) Complete(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.claim.Complete(c.Request.Context(), c.Param("id"), req.WorkerID); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type failRequest struct {
	WorkerID string `json:"worker_id"`
	Error    string `json:"error"`
}

// POST /jobs/{id}/fail
func (h *JobHandler) Fail(c *gin.Context) {
	var req failRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.claim.Fail(c.Request.Context(), c.Param("id"), req.WorkerID, req.Error); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// POST /jobs/{id}/cancel (admin-initiated)
func (h *JobHandler) Cancel(c *gin.Context) {
	if err := h.claim.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type checkpointRequest struct {
	WorkerID   string          `json:"worker_id"`
	Checkpoint json.RawMessage `json:"checkpoint"`
}

// POST /jobs/{id}/checkpoint
func (h *JobHandler) Checkpoint(c *gin.Context) {
	var req checkpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.progress.Checkpoint(c.Request.Context(), c.Param("id"), req.WorkerID, req.Checkpoint); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type heartbeatRequest struct {
	WorkerID     string          `json:"worker_id"`
	Capabilities json.RawMessage `json:"capabilities"`
	Metadata     json.RawMessage `json:"metadata"`
}

// POST /jobs/{id}/heartbeat — a job-level progress heartbeat: confirms the
// caller still owns the job and refreshes the owning worker's liveness in
// one call.
func (h *JobHandler) Heartbeat(c *gin.Context) {
	var req heartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	job, err := h.progress.JobDetailOwned(c.Request.Context(), c.Param("id"), req.WorkerID)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if err := h.progress.Heartbeat(c.Request.Context(), req.WorkerID, req.Capabilities, req.Metadata); err != nil {
		respondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

type logRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// POST /jobs/{id}/log
func (h *JobHandler) Log(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	h.progress.Log(c.Param("id"), req.Level, req.Message)
	c.Status(http.StatusAccepted)
}

func respondAPIError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Err)
		return
	}
	response.RespondError(c, http.StatusInternalServerError, "internal", err)
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
