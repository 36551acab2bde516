package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/consent-draft-be/service"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

type UploadHandler struct {
	fileService   *service.FileService
	ingestService *service.IngestService
	logger        *zap.Logger
}

func NewUploadHandler(fileService *service.FileService, ingestService *service.IngestService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		fileService:   fileService,
		ingestService: ingestService,
		logger:        logger,
	}
}

// UploadDocumentHandler accepts a batch of protocol files and returns
// immediately; ingestion runs in the background while each file's job
// moves through queued -> processing -> processed | failed.
func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid multipart form",
		})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "No files provided",
		})
		return
	}

	const maxSize = 50 << 20
	var saved []service.SavedFile
	rejected := make(map[string]string)
	for _, file := range files {
		if file.Size > maxSize {
			rejected[file.Filename] = "file too large"
			continue
		}
		savedFile, err := h.fileService.SaveUpload(file)
		if err != nil {
			rejected[file.Filename] = err.Error()
			continue
		}
		saved = append(saved, savedFile)
	}

	accepted := make([]string, 0, len(saved))
	for _, file := range saved {
		accepted = append(accepted, file.Filename)
	}
	if err := h.ingestService.QueueJobs(accepted); err != nil {
		h.logger.Error("failed to queue upload jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Failed to record upload status",
		})
		return
	}

	// Ingestion is detached from the request so the ack is immediate.
	go h.ingestService.IngestBatch(context.Background(), saved)

	c.JSON(http.StatusAccepted, types.DataResponse{
		Status: true,
		Data: types.UploadResponse{
			Accepted: accepted,
			Rejected: rejected,
		},
	})
}
