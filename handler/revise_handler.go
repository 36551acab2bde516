package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/consent-draft-be/service"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

type ReviseHandler struct {
	reviseService *service.ReviseService
	logger        *zap.Logger
}

func NewReviseHandler(reviseService *service.ReviseService, logger *zap.Logger) *ReviseHandler {
	return &ReviseHandler{
		reviseService: reviseService,
		logger:        logger,
	}
}

// HandleRevise validates the request synchronously, then streams the
// revised text for the one requested field as SSE, cumulative content
// per event just like the generation stream.
func (h *ReviseHandler) HandleRevise(c *gin.Context) {
	var req types.ReviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Instruction) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Missing required field: instruction",
		})
		return
	}
	field, err := types.ParseSectionID(req.Field)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	chunks, err := h.reviseService.Revise(c.Request.Context(), field, req.Content, req.Instruction)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Writer.CloseNotify()
	for {
		select {
		case <-clientGone:
			for range chunks {
			}
			return
		case chunk, ok := <-chunks:
			if !ok {
				return
			}
			data, err := json.Marshal(chunk)
			if err != nil {
				continue
			}
			c.SSEvent("message", string(data))
			c.Writer.Flush()
		}
	}
}
