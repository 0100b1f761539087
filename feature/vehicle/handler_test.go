package vehicle

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"inventory-sync/core/feed"
	"inventory-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := newFixture(t, feed.Config{AutoSync: true, SyncInterval: "daily"})
	app := fiber.New()
	NewHandler(f.service).RegisterRoutes(app)
	return app, f
}

func TestHandleSync(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var sum reconcile.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	assert.Equal(t, 2, sum.Imported)
	assert.Equal(t, reconcile.StatusSuccess, sum.Status)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var logs struct {
		Entries []reconcile.LogEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&logs))
	require.Len(t, logs.Entries, 1)
	assert.Equal(t, reconcile.StatusSuccess, logs.Entries[0].Status)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/status", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var st map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "idle", st["state"])
	assert.Equal(t, true, st["auto_sync"])
	assert.Equal(t, "daily", st["interval"])
	assert.NotEmpty(t, st["last_success"])
}

func TestHandleSync_Failure(t *testing.T) {
	app, f := setupTestApp(t)
	f.source.body = map[string]string{}

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "unreachable")
	assert.NotNil(t, body["summary"])
}

func TestHandleSync_NoDatabase(t *testing.T) {
	svc, err := NewService(Deps{})
	require.NoError(t, err)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	for _, req := range []struct{ method, path string }{
		{"POST", "/sync"},
		{"GET", "/sync/logs"},
		{"GET", "/sync/status"},
	} {
		resp, err := app.Test(httptest.NewRequest(req.method, req.path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, req.path)
	}
}
