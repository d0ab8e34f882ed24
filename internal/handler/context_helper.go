package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/middleware"
	"github.com/mergington/activities-api/internal/models"
	appErrors "github.com/mergington/activities-api/pkg/errors"
	"github.com/mergington/activities-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func bindRegistration(c *gin.Context) (dto.RegistrationRequest, bool) {
	var req dto.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return req, false
	}
	return req, true
}
