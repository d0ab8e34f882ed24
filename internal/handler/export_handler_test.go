package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/service"
	appErrors "github.com/mergington/activities-api/pkg/errors"
)

type exportServiceMock struct {
	resp       *service.ExportResult
	err        error
	lastFormat service.ExportFormat
}

func (m *exportServiceMock) GenerateRoster(ctx context.Context, format service.ExportFormat) (*service.ExportResult, error) {
	m.lastFormat = format
	return m.resp, m.err
}

func TestExportHandlerRosterDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportServiceMock{
		resp: &service.ExportResult{Content: []byte("Activity\n"), ContentType: "text/csv", Filename: "activities-roster.csv"},
	}
	handler := NewExportHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/activities/export", nil)
	c.Request = req

	handler.Roster(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, mockSvc.lastFormat)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "activities-roster.csv")
	assert.Equal(t, "Activity\n", w.Body.String())
}

func TestExportHandlerRosterPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportServiceMock{
		resp: &service.ExportResult{Content: []byte("%PDF"), ContentType: "application/pdf", Filename: "activities-roster.pdf"},
	}
	handler := NewExportHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/activities/export?format=pdf", nil)
	c.Request = req

	handler.Roster(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatPDF, mockSvc.lastFormat)
}

func TestExportHandlerRosterUnsupportedFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &exportServiceMock{err: appErrors.Clone(appErrors.ErrValidation, `unsupported export format "xlsx"`)}
	handler := NewExportHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/activities/export?format=xlsx", nil)
	c.Request = req

	handler.Roster(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
