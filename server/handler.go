package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/history"
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/bitrise-io/ai-verse-processor/processor"
	"github.com/gin-gonic/gin"
)

// maxBodyBytes bounds request bodies. PDFs travel base64 encoded inside the JSON.
const maxBodyBytes = 32 << 20

// Processor is the part of processor.Processor the handlers use
type Processor interface {
	Process(ctx context.Context, text string, config common.ProcessorConfig, att *attachment.Attachment) (common.ProcessingResult, error)
	Reprocess(ctx context.Context, id string) (common.ProcessingResult, history.Item, error)
}

// HistoryStore is the part of history.Store the handlers use
type HistoryStore interface {
	List() []history.Item
	Get(id string) (history.Item, bool)
	SelectedID() string
	Clear(ctx context.Context) error
}

type Handler struct {
	processor Processor
	store     HistoryStore
	defaults  common.ProcessorConfig
}

func NewHandler(p Processor, store HistoryStore, defaults common.ProcessorConfig) *Handler {
	return &Handler{processor: p, store: store, defaults: defaults}
}

func (h *Handler) Process(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	config := req.Config.apply(h.defaults)
	result, err := h.processor.Process(c.Request.Context(), req.Text, config, req.Attachment)
	if err != nil {
		h.processError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProcessResponse{
		Verses:     result.Verses,
		JSONOutput: result.JSONOutput,
		Config:     config,
	})
}

func (h *Handler) processError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, processor.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, history.ErrItemNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, processor.ErrTimeout):
		logger.Errorf("Model request timed out: %v", err)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: err.Error()})
	default:
		logger.Errorf("Model request failed: %v", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
}

func (h *Handler) GetHistory(c *gin.Context) {
	items := h.store.List()
	c.JSON(http.StatusOK, HistoryResponse{
		Items:      items,
		SelectedID: h.store.SelectedID(),
		Total:      len(items),
	})
}

func (h *Handler) GetHistoryItem(c *gin.Context) {
	item, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "History item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) SelectHistoryItem(c *gin.Context) {
	result, item, err := h.processor.Reprocess(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.processError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReprocessResponse{
		Item:       item,
		Verses:     result.Verses,
		JSONOutput: result.JSONOutput,
	})
}

func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		logger.Errorf("Failed to clear history: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Storage error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
