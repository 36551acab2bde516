package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/consent-draft-be/service"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

type GenerateHandler struct {
	draftService *service.DraftService
	logger       *zap.Logger
}

func NewGenerateHandler(draftService *service.DraftService, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		draftService: draftService,
		logger:       logger,
	}
}

// HandleGenerate opens a long-lived SSE stream of draft snapshots.
// Every event is a complete snapshot (all seven section keys); the
// stream ends with the Done snapshot. A disconnect cancels delivery
// while the session drains in the background.
func (h *GenerateHandler) HandleGenerate(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	snapshots := h.draftService.Generate(c.Request.Context(), req.DocumentTitles)

	clientGone := c.Writer.CloseNotify()
	for {
		select {
		case <-clientGone:
			h.logger.Info("client disconnected from generate stream")
			// Keep draining so the session's merger can finish.
			for range snapshots {
			}
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			c.SSEvent("message", string(data))
			c.Writer.Flush()
		}
	}
}
