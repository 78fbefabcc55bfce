package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lipish/corexia/internal/http/response"
	"github.com/lipish/corexia/internal/platform/logger"
	"github.com/lipish/corexia/internal/services"
)

type FinetuneHandler struct {
	log     *logger.Logger
	service services.FinetuneService
}

func NewFinetuneHandler(log *logger.Logger, service services.FinetuneService) *FinetuneHandler {
	return &FinetuneHandler{log: log.With("handler", "FinetuneHandler"), service: service}
}

// POST /finetunes/:fid/datasets/:did
func (h *FinetuneHandler) LinkDataset(c *gin.Context) {
	fid, ok := pathUUID(c, "fid")
	if !ok {
		return
	}
	did, ok := pathUUID(c, "did")
	if !ok {
		return
	}
	res, err := h.service.LinkDatasetToFinetune(c.Request.Context(), fid, did)
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{
		"ok":          true,
		"finetune_id": res.FinetuneID,
		"dataset_id":  res.DatasetID,
		"created":     res.Created,
	})
}

// GET /finetunes/:fid/datasets
func (h *FinetuneHandler) ListDatasets(c *gin.Context) {
	fid, ok := pathUUID(c, "fid")
	if !ok {
		return
	}
	rows, err := h.service.ListFinetuneDatasets(c.Request.Context(), fid)
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{"datasets": rows})
}
