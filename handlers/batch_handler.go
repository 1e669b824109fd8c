package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"caseatlas-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BatchRunner is the batch surface used by BatchHandler
type BatchRunner interface {
	Status(ctx context.Context) (*service.BatchStatus, error)
	Run(ctx context.Context, req service.RunBatchRequest, progress func(string)) (*service.RunBatchResult, error)
}

// BatchHandler handles HTTP requests for batch extraction
type BatchHandler struct {
	batch  BatchRunner
	logger *zap.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(batch BatchRunner, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{
		batch:  batch,
		logger: logger,
	}
}

// RunBatchRequest represents the optional request body for a batch run
type RunBatchRequest struct {
	Limit       int `json:"limit"`
	Concurrency int `json:"concurrency"`
}

// Status handles GET /api/batch/status
func (h *BatchHandler) Status(c *gin.Context) {
	status, err := h.batch.Status(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STATUS_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, status)
}

// Run handles POST /api/batch/run, streaming progress as server-sent events
func (h *BatchHandler) Run(c *gin.Context) {
	var req RunBatchRequest
	// JSON is optional, an empty body runs every case
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Limit < 0 || req.Concurrency < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit and concurrency must not be negative")
		return
	}

	ctx := c.Request.Context()
	messages := make(chan string)

	go func() {
		defer close(messages)
		_, err := h.batch.Run(ctx, service.RunBatchRequest{
			Limit:       req.Limit,
			Concurrency: req.Concurrency,
		}, func(msg string) {
			select {
			case messages <- msg:
			case <-ctx.Done():
			}
		})
		if err != nil {
			h.logger.Warn("batch run ended early", zap.Error(err))
		}
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for msg := range messages {
		fmt.Fprintf(c.Writer, "data: %s\n\n", strings.ReplaceAll(msg, "\n", " "))
		c.Writer.Flush()
	}
}
