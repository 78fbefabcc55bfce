package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lipish/corexia/internal/data/repos"
	"github.com/lipish/corexia/internal/http/response"
	"github.com/lipish/corexia/internal/platform/logger"
	"github.com/lipish/corexia/internal/services"
)

type DatasetHandler struct {
	log     *logger.Logger
	service services.DatasetService
}

func NewDatasetHandler(log *logger.Logger, service services.DatasetService) *DatasetHandler {
	return &DatasetHandler{log: log.With("handler", "DatasetHandler"), service: service}
}

type pageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=0"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

func (q pageQuery) options() repos.ListOptions {
	return repos.ListOptions{Limit: q.Limit, Offset: q.Offset}
}

// GET /datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := h.service.ListDatasets(c.Request.Context(), q.options())
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, rows)
}

// GET /datasets/:id
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	ds, err := h.service.GetDataset(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, ds)
}

// POST /datasets
func (h *DatasetHandler) CreateDataset(c *gin.Context) {
	var req struct {
		Name        string            `json:"name"`
		Description *string           `json:"description"`
		Tags        []string          `json:"tags"`
		Samples     []json.RawMessage `json:"samples"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ds, added, err := h.service.CreateDatasetWithSamples(c.Request.Context(), services.CreateDatasetInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Samples:     req.Samples,
	})
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{"dataset": ds, "added_samples": added})
}

// DELETE /datasets/:id
func (h *DatasetHandler) DeleteDataset(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteDataset(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "id": id})
}

// POST /datasets/:id/samples
func (h *DatasetHandler) AppendSamples(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Samples []json.RawMessage `json:"samples" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ds, added, err := h.service.AppendSamples(c.Request.Context(), id, req.Samples)
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{"dataset": ds, "added_samples": added})
}

// GET /datasets/:id/samples
func (h *DatasetHandler) ListSamples(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := h.service.ListSamples(c.Request.Context(), id, q.options())
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{"samples": rows})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
