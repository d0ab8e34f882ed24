package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]dto.ActivityView, error)
	Get(ctx context.Context, name string) (*dto.ActivityView, error)
	Register(ctx context.Context, activityName string, req dto.RegistrationRequest, actor *models.JWTClaims) (*dto.RegistrationResult, error)
	Unregister(ctx context.Context, activityName string, req dto.RegistrationRequest, actor *models.JWTClaims) (*dto.RegistrationResult, error)
}

// ActivityHandler exposes the directory endpoints.
type ActivityHandler struct {
	activities activityService
}

// NewActivityHandler constructs ActivityHandler.
func NewActivityHandler(activities activityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// List godoc
// @Summary List activities
// @Tags Activities
// @Produce json
// @Param day query string false "Narrow to a weekday"
// @Param start_time query string false "Earliest start time (HH:MM)"
// @Param end_time query string false "Latest end time (HH:MM)"
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	filter := models.ActivityFilter{
		Day:       c.Query("day"),
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
	}

	activities, err := h.activities.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, nil)
}

// Get godoc
// @Summary Get a single activity
// @Tags Activities
// @Produce json
// @Param name path string true "Activity name"
// @Success 200 {object} response.Envelope
// @Router /activities/{name} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.activities.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// Signup godoc
// @Summary Sign a participant up for an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param name path string true "Activity name"
// @Param payload body dto.RegistrationRequest true "Participant email"
// @Success 200 {object} response.Envelope
// @Router /activities/{name}/signup [post]
func (h *ActivityHandler) Signup(c *gin.Context) {
	req, ok := bindRegistration(c)
	if !ok {
		return
	}
	result, err := h.activities.Register(c.Request.Context(), c.Param("name"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Unregister godoc
// @Summary Remove a participant from an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param name path string true "Activity name"
// @Param payload body dto.RegistrationRequest true "Participant email"
// @Success 200 {object} response.Envelope
// @Router /activities/{name}/unregister [post]
func (h *ActivityHandler) Unregister(c *gin.Context) {
	req, ok := bindRegistration(c)
	if !ok {
		return
	}
	result, err := h.activities.Unregister(c.Request.Context(), c.Param("name"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
