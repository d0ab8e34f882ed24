package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/service"
)

const testSecret = "middleware-test-secret"

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, service.AuthConfig{
		AccessTokenSecret: testSecret,
		AccessTokenExpiry: time.Hour,
		Issuer:            "activities-api",
	})
}

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: "teacher-1",
		Role:   models.RoleTeacher,
		Email:  "staff@mergington.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "activities-api",
			Subject:   "teacher-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func performWithAuthHeader(authHeader string) (*httptest.ResponseRecorder, *models.JWTClaims) {
	gin.SetMode(gin.TestMode)
	var captured *models.JWTClaims
	r := gin.New()
	r.GET("/protected", JWT(testAuthService()), func(c *gin.Context) {
		if value, ok := c.Get(ContextUserKey); ok {
			captured = value.(*models.JWTClaims)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w, captured
}

func TestJWTAcceptsValidToken(t *testing.T) {
	w, claims := performWithAuthHeader("Bearer " + signTestToken(t, testSecret))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "teacher-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	w, _ := performWithAuthHeader("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	w, _ := performWithAuthHeader("Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	w, _ := performWithAuthHeader("Bearer " + signTestToken(t, "some-other-secret"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
