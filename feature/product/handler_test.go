package product_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"data-importer/core/config"
	"data-importer/core/database"
	"data-importer/core/job"
	"data-importer/core/session"
	"data-importer/core/storage"
	"data-importer/feature/product"
	"data-importer/feature/product/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	store := product.NewStore(db, zap.NewNop())
	require.NoError(t, store.Migrate())
	require.NoError(t, db.Create(&models.Product{SKU: "A-1", Name: "Chair", Price: decimal.RequireFromString("10"), Stock: 1}).Error)

	svc, err := product.NewService(store, nil, storage.Config{Bucket: "imports"}, config.ImportConfig{
		MaxRows:       1000,
		Timezone:      "UTC",
		DetectDeleted: true,
	}, zap.NewNop())
	require.NoError(t, err)

	app := fiber.New()
	require.NoError(t, product.NewFeature(svc).Load(app))
	return app
}

func multipartUpload(t *testing.T, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/imports", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHandlerImportLifecycle(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(multipartUpload(t, "products.csv", "sku,name,price\nA-1,Chair,12.00\nB-7,Stool,3.50\n"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var summary product.Summary
	decode(t, resp, &summary)
	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "products.csv", summary.Name)
	assert.Equal(t, 2, summary.Stats.Rows)
	assert.Equal(t, ",", summary.Stats.Delimiter)

	resp, err = app.Test(httptest.NewRequest("GET", "/imports/"+summary.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/imports/"+summary.ID+"/entries?modified=true", nil))
	require.NoError(t, err)
	var entries []session.Entry
	decode(t, resp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "A-1", entries[0].Key)
	assert.Equal(t, "10", entries[0].Diff["price"])

	resp, err = app.Test(httptest.NewRequest("GET", "/imports/"+summary.ID+"/entries", nil))
	require.NoError(t, err)
	decode(t, resp, &entries)
	assert.Len(t, entries, 2)

	req := httptest.NewRequest("POST", "/imports/"+summary.ID+"/jobs", strings.NewReader(`{"statuses":["NEW","MODIFIED"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	var started map[string]string
	decode(t, resp, &started)
	jobID := started["job_id"]
	require.NotEmpty(t, jobID)

	require.Eventually(t, func() bool {
		resp, err := app.Test(httptest.NewRequest("GET", "/jobs/"+jobID, nil))
		if err != nil || resp.StatusCode != fiber.StatusOK {
			return false
		}
		var st job.Status
		decode(t, resp, &st)
		return st.State == job.StateCompleted
	}, 5*time.Second, 20*time.Millisecond)

	resp, err = app.Test(httptest.NewRequest("GET", "/jobs/"+jobID+"/result?format=markdown", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "| Inserted | 1 | 1 |")
	assert.Contains(t, string(body), "| Updated | 1 | 1 |")

	resp, err = app.Test(httptest.NewRequest("POST", "/imports/"+summary.ID+"/reconcile?reread=true", nil))
	require.NoError(t, err)
	decode(t, resp, &summary)
	assert.Equal(t, 2, summary.Counts["UNMODIFIED"])

	resp, err = app.Test(httptest.NewRequest("DELETE", "/jobs/"+jobID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/imports/"+summary.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/imports/"+summary.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandlerErrors(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"Empty file", multipartUpload(t, "empty.csv", ""), fiber.StatusBadRequest},
		{"No file or object", httptest.NewRequest("POST", "/imports", nil), fiber.StatusBadRequest},
		{"Object without storage", func() *http.Request {
			r := httptest.NewRequest("POST", "/imports", strings.NewReader(`{"object":"incoming/a.csv"}`))
			r.Header.Set("Content-Type", "application/json")
			return r
		}(), fiber.StatusServiceUnavailable},
		{"Unknown import", httptest.NewRequest("GET", "/imports/nope", nil), fiber.StatusNotFound},
		{"Unknown import entries", httptest.NewRequest("GET", "/imports/nope/entries", nil), fiber.StatusNotFound},
		{"Unknown job", httptest.NewRequest("GET", "/jobs/nope", nil), fiber.StatusNotFound},
		{"Unknown job cancel", httptest.NewRequest("DELETE", "/jobs/nope", nil), fiber.StatusNotFound},
		{"List objects without storage", httptest.NewRequest("GET", "/imports/objects", nil), fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
