package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_homeHandler(t *testing.T) {
	h := newTestApplication(t).routes()

	res := do(t, h, newRequest(http.MethodGet, "/", ""))

	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "success", res.body["status"])
	assert.Equal(t, appVersion, res.data(t)["version"])
	assert.Equal(t, "/api/books", res.data(t)["endpoints"].(map[string]any)["libros"])
}

func Test_statusHandler(t *testing.T) {
	h := newTestApplication(t).routes()

	res := do(t, h, newRequest(http.MethodGet, "/status", ""))

	require.Equal(t, http.StatusOK, res.status)
	status := res.data(t)
	assert.Equal(t, "Activa", status["estado"])
	assert.Equal(t, "2026-10-19T12:00:00Z", status["timestamp"])
	assert.Equal(t, appVersion, status["version"])
	assert.Equal(t, "development", status["entorno"])
	assert.Contains(t, status, "servidor")
	assert.Contains(t, status, "uptime")
}

func Test_healthcheckHandler(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes()

	res := do(t, h, newRequest(http.MethodGet, "/health", ""))
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "success", res.body["status"])
	assert.Equal(t, "Healthy", res.data(t)["status"])
	assert.Equal(t, map[string]any{"database": "Healthy"}, res.data(t)["checks"])

	require.NoError(t, app.models.Books.DB.Close())

	res = do(t, h, newRequest(http.MethodGet, "/health", ""))
	require.Equal(t, http.StatusServiceUnavailable, res.status)
	assert.Equal(t, "error", res.body["status"])
	assert.Equal(t, "La base de datos no responde.", res.body["message"])
	assert.EqualValues(t, http.StatusServiceUnavailable, res.body["code"])
}
