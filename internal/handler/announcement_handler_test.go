package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/middleware"
	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/service"
	appErrors "github.com/mergington/activities-api/pkg/errors"
)

type announcementServiceMock struct {
	listResp       []dto.AnnouncementView
	listErr        error
	getResp        *dto.AnnouncementView
	getErr         error
	upsertResp     *dto.AnnouncementView
	upsertErr      error
	deleteErr      error
	lastActiveOnly bool
	lastUpsert     service.UpsertAnnouncementRequest
	lastDeletedID  string
	listCalled     bool
}

func (m *announcementServiceMock) List(ctx context.Context, activeOnly bool) ([]dto.AnnouncementView, error) {
	m.listCalled = true
	m.lastActiveOnly = activeOnly
	return m.listResp, m.listErr
}

func (m *announcementServiceMock) Get(ctx context.Context, id string) (*dto.AnnouncementView, error) {
	return m.getResp, m.getErr
}

func (m *announcementServiceMock) Upsert(ctx context.Context, req service.UpsertAnnouncementRequest, actor *models.JWTClaims) (*dto.AnnouncementView, error) {
	m.lastUpsert = req
	return m.upsertResp, m.upsertErr
}

func (m *announcementServiceMock) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	m.lastDeletedID = id
	return m.deleteErr
}

func TestAnnouncementHandlerListDefaultsToActiveOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &announcementServiceMock{}
	handler := NewAnnouncementHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/announcements", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.listCalled)
	assert.True(t, mockSvc.lastActiveOnly)
}

func TestAnnouncementHandlerListAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &announcementServiceMock{
		listResp: []dto.AnnouncementView{{Announcement: models.Announcement{ID: "a1"}, Status: models.AnnouncementExpired}},
	}
	handler := NewAnnouncementHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/announcements?active_only=false", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mockSvc.lastActiveOnly)

	var body struct {
		Data []dto.AnnouncementView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, models.AnnouncementExpired, body.Data[0].Status)
}

func TestAnnouncementHandlerCreateForcesCreatePath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &announcementServiceMock{
		upsertResp: &dto.AnnouncementView{Announcement: models.Announcement{ID: "generated"}, Status: models.AnnouncementActive},
	}
	handler := NewAnnouncementHandler(mockSvc)

	payload, _ := json.Marshal(map[string]interface{}{
		"edit_id":         "sneaky-id",
		"message":         "Book fair next week",
		"expiration_date": time.Now().UTC().Add(48 * time.Hour),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/announcements", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, mockSvc.lastUpsert.EditID)
	assert.Equal(t, "Book fair next week", mockSvc.lastUpsert.Message)
}

func TestAnnouncementHandlerUpdateUsesPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &announcementServiceMock{
		upsertResp: &dto.AnnouncementView{Announcement: models.Announcement{ID: "a1"}, Status: models.AnnouncementActive},
	}
	handler := NewAnnouncementHandler(mockSvc)

	payload, _ := json.Marshal(map[string]interface{}{
		"message":         "Updated text",
		"expiration_date": time.Now().UTC().Add(48 * time.Hour),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/announcements/a1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "a1"}}

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a1", mockSvc.lastUpsert.EditID)
}

func TestAnnouncementHandlerCreateValidationFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &announcementServiceMock{
		upsertErr: appErrors.Clone(appErrors.ErrValidation, "message too long (max 500 characters)"),
	}
	handler := NewAnnouncementHandler(mockSvc)

	payload, _ := json.Marshal(map[string]interface{}{
		"message":         "x",
		"expiration_date": time.Now().UTC().Add(time.Hour),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/announcements", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnouncementHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &announcementServiceMock{}
	handler := NewAnnouncementHandler(mockSvc)

	r := gin.New()
	r.DELETE("/announcements/:id", handler.Delete)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/announcements/a1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "a1", mockSvc.lastDeletedID)
}

func TestAnnouncementHandlerDeleteNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &announcementServiceMock{deleteErr: appErrors.Clone(appErrors.ErrNotFound, "announcement not found")}
	handler := NewAnnouncementHandler(mockSvc)

	r := gin.New()
	r.DELETE("/announcements/:id", handler.Delete)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/announcements/missing", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
