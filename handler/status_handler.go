package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/consent-draft-be/database"
	"github.com/tieubaoca/consent-draft-be/types"
)

type StatusHandler struct {
	jobs database.JobStore
}

func NewStatusHandler(jobs database.JobStore) *StatusHandler {
	return &StatusHandler{jobs: jobs}
}

// HandleStatus returns the current filename -> job mapping. Failed
// files show up here with their reason; the query always reflects the
// latest recorded state.
func (h *StatusHandler) HandleStatus(c *gin.Context) {
	jobs, err := h.jobs.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   types.StatusResponse{Jobs: jobs},
	})
}
