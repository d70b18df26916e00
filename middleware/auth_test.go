package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"variant-editor-service/common/auth"
	"variant-editor-service/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret")

func setupRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(testSecret), middleware.AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(middleware.UserContextKey)})
	})
	return r
}

func call(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_GatewayHeaders(t *testing.T) {
	r := setupRouter()

	w := call(r, map[string]string{"X-User-ID": "user-1", "X-User-Role": "admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")

	w = call(r, map[string]string{"X-User-ID": "user-1", "X-User-Role": "customer"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	r := setupRouter()
	token, err := auth.NewServiceTokenSource(string(testSecret), "ops-1", time.Minute*5).Token(context.Background())
	require.NoError(t, err)

	w := call(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops-1")
}

func TestAuthMiddleware_Unauthorized(t *testing.T) {
	r := setupRouter()

	assert.Equal(t, http.StatusUnauthorized, call(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, map[string]string{"Authorization": "Bearer garbage"}).Code)
}
