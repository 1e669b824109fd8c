package handlers

import (
	"context"
	"errors"
	"net/http"

	"caseatlas-backend/models"
	"caseatlas-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CaseService is the extraction surface used by CaseHandler
type CaseService interface {
	ListCases(ctx context.Context) ([]string, error)
	OpenCaseHTML(ctx context.Context, filename string) ([]byte, error)
	HasAnalysis(ctx context.Context, filename string) (bool, error)
	GetAnalysis(ctx context.Context, filename string) (*models.Analysis, error)
	GetRecord(ctx context.Context, id string) (*models.CaseRecord, error)
	StartExtraction(ctx context.Context, req service.StartExtractionRequest) (*service.StartExtractionResult, error)
	ProcessExtraction(ctx context.Context, jobID uuid.UUID) error
	GetJobStatus(ctx context.Context, id uuid.UUID) (*models.ExtractionJob, error)
}

// CaseHandler handles HTTP requests for case documents and their extraction
type CaseHandler struct {
	cases  CaseService
	logger *zap.Logger
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(cases CaseService, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{
		cases:  cases,
		logger: logger,
	}
}

// ListFiles handles GET /api/files
func (h *CaseHandler) ListFiles(c *gin.Context) {
	files, err := h.cases.ListCases(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, files)
}

// GetHTML handles GET /api/html/:filename
func (h *CaseHandler) GetHTML(c *gin.Context) {
	data, err := h.cases.OpenCaseHTML(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.respondCaseError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// OutputExists handles GET /api/output/exists/:filename
func (h *CaseHandler) OutputExists(c *gin.Context) {
	exists, err := h.cases.HasAnalysis(c.Request.Context(), c.Param("filename"))
	if err != nil {
		h.respondCaseError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"exists": exists})
}

// GetOutput handles GET /api/output/:filename
func (h *CaseHandler) GetOutput(c *gin.Context) {
	filename := c.Param("filename")
	analysis, err := h.cases.GetAnalysis(c.Request.Context(), filename)
	if err != nil {
		h.respondCaseError(c, err)
		return
	}

	if c.Query("format") == "json" {
		respondData(c, http.StatusOK, analysis)
		return
	}

	h.writeCard(c, http.StatusOK, filename, analysis)
}

// Analyze handles POST /api/analyze/:filename.
// A cached analysis is returned directly unless ?force=true; otherwise an
// extraction job is started and its id returned for polling.
func (h *CaseHandler) Analyze(c *gin.Context) {
	filename := c.Param("filename")
	ctx := c.Request.Context()

	if c.Query("force") != "true" {
		cached, err := h.cases.HasAnalysis(ctx, filename)
		if err != nil {
			h.respondCaseError(c, err)
			return
		}
		if cached {
			analysis, err := h.cases.GetAnalysis(ctx, filename)
			if err != nil {
				h.respondCaseError(c, err)
				return
			}
			h.writeCard(c, http.StatusOK, filename, analysis)
			return
		}
	}

	result, err := h.cases.StartExtraction(ctx, service.StartExtractionRequest{Filename: filename})
	if err != nil {
		h.respondCaseError(c, err)
		return
	}

	// Use background context (not request context) to avoid cancellation
	go func() {
		if err := h.cases.ProcessExtraction(context.Background(), result.JobID); err != nil {
			h.logger.Warn("extraction job failed", zap.Stringer("job_id", result.JobID), zap.Error(err))
		}
	}()

	respondData(c, http.StatusAccepted, gin.H{
		"job_id":  result.JobID,
		"status":  models.JobStatusPending,
		"message": "Extraction job created. Poll /api/jobs/:id for updates.",
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *CaseHandler) GetJobStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid job ID format")
		return
	}

	job, err := h.cases.GetJobStatus(c.Request.Context(), id)
	if err != nil {
		h.respondCaseError(c, err)
		return
	}

	respondData(c, http.StatusOK, job)
}

// GetRecord handles GET /api/records/:id
func (h *CaseHandler) GetRecord(c *gin.Context) {
	record, err := h.cases.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondCaseError(c, err)
		return
	}

	respondData(c, http.StatusOK, record)
}

func (h *CaseHandler) writeCard(c *gin.Context, status int, filename string, analysis *models.Analysis) {
	var caseType models.CaseType
	if record, err := h.cases.GetRecord(c.Request.Context(), filename); err == nil {
		caseType = record.CaseType
	}

	card, err := renderAnalysisCard(analysis, caseType)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}

	c.Data(status, "text/html; charset=utf-8", []byte(card))
}

func (h *CaseHandler) respondCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFilename):
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", err.Error())
	case errors.Is(err, service.ErrCaseNotFound),
		errors.Is(err, service.ErrAnalysisNotFound),
		errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrJobNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		h.logger.Error("case request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
