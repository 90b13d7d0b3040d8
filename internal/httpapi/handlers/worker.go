package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/latticedata/coordinator/internal/httpapi/response"
	"github.com/latticedata/coordinator/internal/progress"
)

type WorkerHandler struct {
	progress *progress.Pipeline
}

func NewWorkerHandler(p *progress.Pipeline) *WorkerHandler {
	return &WorkerHandler{progress: p}
}

type workerHeartbeatRequest struct {
	WorkerID     string          `json:"worker_id"`
	Capabilities json.RawMessage `json:"capabilities"`
	Metadata     json.RawMessage `json:"metadata"`
}

// POST /workers/heartbeat — standalone worker liveness heartbeat, usable
// before the worker holds any claim.
func (h *WorkerHandler) Heartbeat(c *gin.Context) {
	var req workerHeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if req.WorkerID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", nil)
		return
	}
	if err := h.progress.Heartbeat(c.Request.Context(), req.WorkerID, req.Capabilities, req.Metadata); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GET /workers
func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.progress.ListActiveWorkers(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"workers": workers, "count": len(workers)})
}
