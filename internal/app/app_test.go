package app_test

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"todoapp/internal/app"
	"todoapp/internal/database"
	"todoapp/internal/repositories"
	"todoapp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, origins string) *fiber.App {
	t.Helper()
	log.SetOutput(io.Discard)
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), "test_jwt_secret", 0)
	todoService := services.NewTodoService(repositories.NewGORMTodoRepository(db), nil)
	return app.New(app.Options{
		AuthService:       authService,
		TodoService:       todoService,
		CORSAllowOrigins:  origins,
		DisableRequestLog: true,
	})
}

func TestHealthCheck(t *testing.T) {
	server := newTestApp(t, "")

	resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestCORSPreflight(t *testing.T) {
	server := newTestApp(t, "http://localhost:5173")

	req := httptest.NewRequest(http.MethodOptions, "/create-todo", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := server.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := newTestApp(t, "")

	resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/user/me", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Open routes answer without a token
	resp, err = server.Test(httptest.NewRequest(http.MethodGet, "/get_todo", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
