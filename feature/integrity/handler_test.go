package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"inventory-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, db *gorm.DB) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", "vehicles", zap.NewNop(), db)
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient := setupTestApp(t, nil)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["missing"])
}

func TestHandleStructureCheck_Fix(t *testing.T) {
	app, mockClient := setupTestApp(t, nil)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())
	mockClient.On("PutObject", mock.Anything, "test-bucket", "vehicles/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fixed", body["status"])
}

func TestHandleSchemaAndHierarchy(t *testing.T) {
	app, _ := setupTestApp(t, setupSQLite(t))

	for _, path := range []string{"/integrity/schema", "/integrity/hierarchy", "/integrity/images"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		if path != "/integrity/images" {
			assert.Equal(t, true, body["matched"], path)
		}
	}
}

func TestHandleChecks_NoDatabase(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	for _, path := range []string{"/integrity/schema", "/integrity/hierarchy", "/integrity/images"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode, path)
	}
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient := setupTestApp(t, nil)

	// Every check fails fast; the combined report still answers 200.
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	for _, check := range []string{"structure", "schema", "hierarchy"} {
		assert.Equal(t, "error", body[check]["status"], check)
	}
}
