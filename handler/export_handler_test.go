package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/consent-draft-be/service"
	"github.com/tieubaoca/consent-draft-be/types"
)

func newExportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewExportHandler(service.NewExportService(service.NewMarkdownRenderer()))
	router.POST("/api/v1/export", h.HandleExport)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleExport(t *testing.T) {
	router := newExportRouter()

	data := make(map[string]string)
	for _, id := range types.SectionIDs {
		data[string(id)] = "## Section\n\nText."
	}
	w := postJSON(t, router, "/api/v1/export", types.ExportRequest{Title: "My Study", Data: data})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "My_Study.md")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "**Study Title:** My Study")
}

func TestHandleExportRejectsMissingData(t *testing.T) {
	router := newExportRouter()

	w := postJSON(t, router, "/api/v1/export", map[string]any{"title": "My Study"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp types.DataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Status)
	assert.Contains(t, resp.Message, "missing required field: data")
}

func TestHandleExportRejectsUnknownField(t *testing.T) {
	router := newExportRouter()

	w := postJSON(t, router, "/api/v1/export", types.ExportRequest{
		Title: "My Study",
		Data:  map[string]string{"conclusion": "x"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown section")
}

func TestHandleExportRejectsMalformedBody(t *testing.T) {
	router := newExportRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/export", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
