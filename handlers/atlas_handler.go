package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"caseatlas-backend/atlas"
	"caseatlas-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AtlasGrouper is the grouping surface used by AtlasHandler
type AtlasGrouper interface {
	Fields() []atlas.FieldSpec
	AvailableFields(axes []atlas.FieldID, position int) ([]atlas.FieldSpec, error)
	GroupCases(ctx context.Context, req service.GroupCasesRequest) (*service.GroupCasesResult, error)
}

// AtlasHandler handles HTTP requests for the case atlas
type AtlasHandler struct {
	atlas  AtlasGrouper
	logger *zap.Logger
}

// NewAtlasHandler creates a new atlas handler
func NewAtlasHandler(grouper AtlasGrouper, logger *zap.Logger) *AtlasHandler {
	return &AtlasHandler{
		atlas:  grouper,
		logger: logger,
	}
}

// GroupRequest represents the request body for POST /api/atlas/groups
type GroupRequest struct {
	Axes []string `json:"axes"`
}

// ListFields handles GET /api/atlas/fields
func (h *AtlasHandler) ListFields(c *gin.Context) {
	respondData(c, http.StatusOK, h.atlas.Fields())
}

// AvailableFields handles GET /api/atlas/available?axis=..&position=n.
// position defaults to a new slot after the last axis.
func (h *AtlasHandler) AvailableFields(c *gin.Context) {
	axes := toFieldIDs(c.QueryArray("axis"))

	position := len(axes)
	if raw := c.Query("position"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_POSITION", "position must be an integer")
			return
		}
		position = n
	}

	fields, err := h.atlas.AvailableFields(axes, position)
	if err != nil {
		h.respondAtlasError(c, err)
		return
	}

	respondData(c, http.StatusOK, fields)
}

// Groups handles GET and POST /api/atlas/groups.
// GET takes the chain as repeated ?axis= parameters, POST as {"axes": [...]}.
// ?format=text returns the plain text rendering instead of JSON.
func (h *AtlasHandler) Groups(c *gin.Context) {
	var axes []atlas.FieldID
	if c.Request.Method == http.MethodPost {
		var req GroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		axes = toFieldIDs(req.Axes)
	} else {
		axes = toFieldIDs(c.QueryArray("axis"))
	}

	result, err := h.atlas.GroupCases(c.Request.Context(), service.GroupCasesRequest{Axes: axes})
	if err != nil {
		h.respondAtlasError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, atlas.RenderText(result.View))
		return
	}

	respondData(c, http.StatusOK, result)
}

func toFieldIDs(values []string) []atlas.FieldID {
	ids := make([]atlas.FieldID, len(values))
	for i, v := range values {
		ids[i] = atlas.FieldID(v)
	}
	return ids
}

func (h *AtlasHandler) respondAtlasError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, atlas.ErrUnknownField):
		respondError(c, http.StatusBadRequest, "UNKNOWN_FIELD", err.Error())
	case errors.Is(err, atlas.ErrDuplicateAxis):
		respondError(c, http.StatusBadRequest, "DUPLICATE_AXIS", err.Error())
	case errors.Is(err, atlas.ErrAxisOutOfRange):
		respondError(c, http.StatusBadRequest, "INVALID_POSITION", err.Error())
	default:
		h.logger.Error("atlas request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "GROUPING_FAILED", err.Error())
	}
}
