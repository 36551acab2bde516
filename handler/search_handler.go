package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/consent-draft-be/service"
	"github.com/tieubaoca/consent-draft-be/types"
)

type SearchHandler struct {
	retriever *service.RetrieverService
}

func NewSearchHandler(retriever *service.RetrieverService) *SearchHandler {
	return &SearchHandler{retriever: retriever}
}

// HandleSearch exposes the scoped retriever directly: top chunks for a
// free-text query, optionally restricted to a set of document titles.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Missing required field: query",
		})
		return
	}

	chunks, err := h.retriever.Search(c.Request.Context(), req.Query, req.DocumentTitles, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Search failed: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   types.SearchResponse{Chunks: chunks},
	})
}
