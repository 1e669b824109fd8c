package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"caseatlas-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CaseImporter stores uploaded case documents
type CaseImporter interface {
	ImportCase(ctx context.Context, filename string, document, html []byte) error
}

// FileHandler handles HTTP requests for case document uploads
type FileHandler struct {
	cases       CaseImporter
	maxFileSize int64
	logger      *zap.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(cases CaseImporter, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		cases:       cases,
		maxFileSize: 10 * 1024 * 1024, // 10MB
		logger:      logger,
	}
}

// UploadFile handles POST /api/files/upload
//
// The multipart form carries the case document in "file" and, optionally,
// its rendered HTML in "html".
func (h *FileHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	document, ok := h.readPart(c, fileHeader)
	if !ok {
		return
	}

	var html []byte
	if htmlHeader, err := c.FormFile("html"); err == nil {
		html, ok = h.readPart(c, htmlHeader)
		if !ok {
			return
		}
	}

	filename := filepath.Base(fileHeader.Filename)
	if err := h.cases.ImportCase(c.Request.Context(), filename, document, html); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFilename):
			respondError(c, http.StatusBadRequest, "INVALID_FILENAME", err.Error())
		case errors.Is(err, service.ErrInvalidDocument):
			respondError(c, http.StatusBadRequest, "INVALID_DOCUMENT", err.Error())
		default:
			h.logger.Error("case upload failed", zap.String("filename", filename), zap.Error(err))
			respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", err.Error())
		}
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"filename": filename,
		"size":     len(document),
		"has_html": len(html) > 0,
	})
}

// readPart reads one uploaded part, writing the error response on failure
func (h *FileHandler) readPart(c *gin.Context, header *multipart.FileHeader) ([]byte, bool) {
	if header.Size > h.maxFileSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return nil, false
	}
	return data, true
}
