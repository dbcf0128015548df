package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcharkviani/library/internal/config"
	"github.com/mcharkviani/library/internal/database"
	"github.com/mcharkviani/library/internal/database/users"
)

func setupHandlersTest(t *testing.T) (*gin.Engine, *Service, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_auth_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cfg := config.Auth{
		BcryptCost:      bcrypt.MinCost,
		SessionLifetime: time.Hour,
	}
	service := NewService(users.NewRepository(db.DB), cfg)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessionManager, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	router := gin.New()
	router.Use(sessionManager.SessionLoadSave())
	NewController(service, sessionManager).RegisterRoutes(router)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, service, cleanup
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestController_Register(t *testing.T) {
	router, _, cleanup := setupHandlersTest(t)
	defer cleanup()

	w := postJSON(t, router, "/auth/register", gin.H{
		"firstName": "Jane", "lastName": "Doe",
		"email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")
	assert.NotContains(t, w.Body.String(), "password123")

	// Duplicate email
	w = postJSON(t, router, "/auth/register", gin.H{
		"firstName": "Janet", "lastName": "Doe",
		"email": "jane@example.com", "password": "password456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Bad email
	w = postJSON(t, router, "/auth/register", gin.H{
		"firstName": "Jane", "lastName": "Doe",
		"email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestController_Login(t *testing.T) {
	router, service, cleanup := setupHandlersTest(t)
	defer cleanup()

	_, err := service.Register("Jane", "Doe", "jane@example.com", "password123")
	require.NoError(t, err)

	w := postJSON(t, router, "/auth/login", gin.H{
		"email": "jane@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	token, _ := response["token"].(string)
	require.NotEmpty(t, token)

	// The returned token is live
	user, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	// Session cookie was set
	assert.NotEmpty(t, w.Result().Cookies())

	w = postJSON(t, router, "/auth/login", gin.H{
		"email": "jane@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
