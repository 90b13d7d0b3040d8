package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/latticedata/coordinator/internal/domain"
	"github.com/latticedata/coordinator/internal/httpapi/response"
	"github.com/latticedata/coordinator/internal/progress"
)

type DataQualityHandler struct {
	progress *progress.Pipeline
}

func NewDataQualityHandler(p *progress.Pipeline) *DataQualityHandler {
	return &DataQualityHandler{progress: p}
}

type reportIssueRequest struct {
	JobID          string          `json:"job_id"`
	SourceRecordID string          `json:"source_record_id"`
	IssueType      string          `json:"issue_type"`
	Severity       string          `json:"severity"`
	FieldName      string          `json:"field_name"`
	InvalidValue   string          `json:"invalid_value"`
	ExpectedFormat string          `json:"expected_format"`
	Message        string          `json:"message"`
	RawRecord      json.RawMessage `json:"raw_record"`
}

// POST /jobs/{id}/issues
func (h *DataQualityHandler) Report(c *gin.Context) {
	var req reportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	issue := &domain.DataQualityIssue{
		JobID:          c.Param("id"),
		SourceRecordID: req.SourceRecordID,
		IssueType:      req.IssueType,
		Severity:       req.Severity,
		FieldName:      req.FieldName,
		InvalidValue:   req.InvalidValue,
		ExpectedFormat: req.ExpectedFormat,
		Message:        req.Message,
		RawRecord:      req.RawRecord,
	}
	if err := h.progress.ReportIssue(c.Request.Context(), issue); err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"issue_id": issue.ID})
}

// GET /data-quality/issues?status=&limit=
func (h *DataQualityHandler) List(c *gin.Context) {
	status := c.Query("status")
	limit := queryInt(c, "limit", 100)
	issues, err := h.progress.ListIssues(c.Request.Context(), status, limit)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"issues": issues, "count": len(issues)})
}

type resolveIssueRequest struct {
	Action     string `json:"action"`
	Notes      string `json:"notes"`
	ResolvedBy string `json:"resolved_by"`
}

// POST /data-quality/issues/{id}/resolve
func (h *DataQualityHandler) Resolve(c *gin.Context) {
	var req resolveIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.progress.ResolveIssue(c.Request.Context(), c.Param("id"), req.Action, req.Notes, req.ResolvedBy); err != nil {
		respondAPIError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
