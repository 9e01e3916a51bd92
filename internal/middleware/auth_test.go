// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/carmarket-backend/internal/models"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(nil), func(c *gin.Context) {
		userType, _ := c.Get("user_type")
		c.JSON(http.StatusOK, gin.H{"user_type": userType})
	})
	r.GET("/dealers-only",
		AuthRequired(nil),
		RoleRequired(models.UserTypeDealershipAdmin),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	return r
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	r := setupAuthRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	r := setupAuthRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredValidToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupAuthRouter()

	token, err := utils.GenerateJWT(uuid.New(), "alice", "customer", 1)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "customer")
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupAuthRouter()

	token, err := utils.GenerateJWT(uuid.New(), "alice", "customer", -1)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequired(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := setupAuthRouter()

	dealerToken, err := utils.GenerateJWT(uuid.New(), "dealer", string(models.UserTypeDealershipAdmin), 1)
	require.NoError(t, err)
	customerToken, err := utils.GenerateJWT(uuid.New(), "alice", string(models.UserTypeCustomer), 1)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/dealers-only", nil)
	req.Header.Set("Authorization", "Bearer "+dealerToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/dealers-only", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
