package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mergington/activities-api/internal/service"
	"github.com/mergington/activities-api/pkg/response"
)

type exportService interface {
	GenerateRoster(ctx context.Context, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler exposes the roster export endpoint.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Roster godoc
// @Summary Export the activity roster
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} file
// @Router /activities/export [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	result, err := h.exports.GenerateRoster(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
