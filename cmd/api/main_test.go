package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/books-api/internal/data"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// newTestApplication wires the application to a private in-memory SQLite
// database. Rate limiting is off unless a test turns it back on.
func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, data.Migrate(context.Background(), db))

	models, err := data.NewModels(db)
	require.NoError(t, err)

	cfg := defaultConfig()
	cfg.DB.Driver = "sqlite"
	cfg.DB.DSN = ":memory:"
	cfg.Limiter.Enabled = false

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := newApplication(cfg, logger, models, prometheus.NewRegistry())
	app.clock = func() time.Time { return testNow }

	return app
}

// testResponse is a recorded response with its body decoded as a JSON object.
type testResponse struct {
	status int
	header http.Header
	body   map[string]any
	raw    string
}

func (r testResponse) data(t *testing.T) map[string]any {
	t.Helper()
	d, ok := r.body["data"].(map[string]any)
	require.Truef(t, ok, "response has no data object: %s", r.raw)
	return d
}

func do(t *testing.T, h http.Handler, req *http.Request) testResponse {
	t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	res := testResponse{status: rr.Code, header: rr.Header(), raw: rr.Body.String()}
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res.body), rr.Body.String())
	}
	return res
}

func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func seedBook(t *testing.T, app *applicationDependencies, title, author string, year int) data.Book {
	t.Helper()

	b, err := app.models.Books.Insert(context.Background(), data.Book{Title: title, Author: author, Year: year})
	require.NoError(t, err)
	return b
}

func Test_newLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, closeLog, err := newLogger(logConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closeLog()

	logger.Info("hidden")
	logger.Warn("shown", "id", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"id":7`)
}

func Test_newLogger_File(t *testing.T) {
	var stdout bytes.Buffer
	path := filepath.Join(t.TempDir(), "api.log")

	logger, closeLog, err := newLogger(logConfig{Level: "info", Format: "text", File: path}, &stdout)
	require.NoError(t, err)

	logger.Info("to both")
	closeLog()

	assert.Contains(t, stdout.String(), "to both")
	assert.FileExists(t, path)
}

func Test_newLogger_InvalidLevel(t *testing.T) {
	_, _, err := newLogger(logConfig{Level: "loud", Format: "text"}, io.Discard)
	assert.Error(t, err)
}

func Test_MigrateCommand(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"migrate", "--db-driver=sqlite", "--db-dsn=:memory:", "--log-level=error"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	assert.NoError(t, root.Execute())
}

func Test_MigrateCommand_InvalidConfig(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"migrate", "--db-driver=oracle"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db.driver")
}

func Test_Metrics(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes()

	do(t, h, newRequest(http.MethodGet, "/api/books", ""))
	do(t, h, newRequest(http.MethodGet, "/api/books/99", ""))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newRequest(http.MethodGet, "/metrics", ""))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `books_api_requests_total{method="GET",route="/api/books",status="200"} 1`)
	assert.Contains(t, body, `books_api_requests_total{method="GET",route="/api/books/:id",status="404"} 1`)
	assert.Contains(t, body, `books_api_request_duration_seconds_count{route="/api/books"} 1`)
}
