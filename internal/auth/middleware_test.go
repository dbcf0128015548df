package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiddlewareTest(t *testing.T) (*gin.Engine, *Service, func()) {
	t.Helper()

	router, service, cleanup := setupHandlersTest(t)
	_ = router

	protected := gin.New()
	protected.Use(NewMiddleware(service, nil).Handler())
	protected.GET("/api/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	protected.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return protected, service, cleanup
}

func TestMiddleware(t *testing.T) {
	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		router, _, cleanup := setupMiddlewareTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lets public paths through", func(t *testing.T) {
		router, _, cleanup := setupMiddlewareTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		router, service, cleanup := setupMiddlewareTest(t)
		defer cleanup()

		user, err := service.Register("Jane", "Doe", "jane@example.com", "password123")
		require.NoError(t, err)
		token, err := service.IssueToken(user.ID)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID)
	})

	t.Run("rejects a garbage bearer token", func(t *testing.T) {
		router, _, cleanup := setupMiddlewareTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/whoami", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
