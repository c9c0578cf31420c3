package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackplan/stackplan/pkg/pipeline"
	"github.com/stackplan/stackplan/pkg/store"
)

const validManifest = `{
  "regions": ["eu-west-1", "us-east-1"],
  "ha_mode": "active-active",
  "services": [
    {"kind": "web_app"},
    {"kind": "sql_database"}
  ]
}`

func testServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	t.Cleanup(func() { _ = runner.Close() })
	return NewServer(runner, st, logger)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCatalogEndpoint(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Kinds []struct {
			Kind     string   `json:"kind"`
			Group    string   `json:"group"`
			Requires []string `json:"requires"`
		} `json:"kinds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Kinds)

	found := false
	for _, k := range body.Kinds {
		if k.Kind == "web_app" {
			found = true
			assert.Equal(t, "compute", k.Group)
			assert.NotEmpty(t, k.Requires)
		}
	}
	assert.True(t, found, "catalog should list web_app")
}

func TestPatternsEndpoint(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/patterns", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ha-multiregion")
}

func TestComposeEndpoint(t *testing.T) {
	router := testServer(t, nil).Router()

	rec := postJSON(t, router, "/v1/compose", map[string]any{
		"manifest": json.RawMessage(validManifest),
		"formats":  []string{"dot", "json"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Pattern   string            `json:"pattern"`
		Graph     json.RawMessage   `json:"graph"`
		GraphHash string            `json:"graph_hash"`
		Artifacts map[string]string `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ha-multiregion", resp.Pattern)
	assert.NotEmpty(t, resp.GraphHash)
	assert.NotEmpty(t, resp.Graph)
	assert.Contains(t, resp.Artifacts["dot"], "digraph")
}

func TestComposeInvalidManifestReturnsFindings(t *testing.T) {
	router := testServer(t, nil).Router()

	rec := postJSON(t, router, "/v1/compose", map[string]any{
		"manifest": json.RawMessage(`{"regions": [], "services": [{"kind": "web_app"}]}`),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_errors")
}

func TestComposeRejectsMissingManifest(t *testing.T) {
	router := testServer(t, nil).Router()

	rec := postJSON(t, router, "/v1/compose", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_MANIFEST")
}

func TestComposeUnknownPattern(t *testing.T) {
	router := testServer(t, nil).Router()

	rec := postJSON(t, router, "/v1/compose", map[string]any{
		"manifest": json.RawMessage(validManifest),
		"pattern":  "hub-and-spoke",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "PATTERN_NOT_FOUND")
}

func TestValidateEndpoint(t *testing.T) {
	router := testServer(t, nil).Router()

	rec := postJSON(t, router, "/v1/validate", map[string]any{
		"manifest": json.RawMessage(validManifest),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)

	rec = postJSON(t, router, "/v1/validate", map[string]any{
		"manifest": json.RawMessage(`{"regions": [], "services": [{"kind": "web_app"}]}`),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
}

func TestValidateAcceptsYAMLText(t *testing.T) {
	router := testServer(t, nil).Router()

	rec := postJSON(t, router, "/v1/validate", map[string]any{
		"manifest_text": "regions:\n  - eu-west-1\nservices:\n  - kind: web_app\n",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestDesignEndpointsDisabledWithoutStore(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/designs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDesignLifecycle(t *testing.T) {
	st := NewMemoryStoreForTest(t)
	router := testServer(t, st).Router()

	// Save
	rec := postJSON(t, router, "/v1/designs", map[string]any{
		"name":     "checkout",
		"manifest": json.RawMessage(validManifest),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved store.Design
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "checkout", saved.Name)
	require.NotNil(t, saved.Graph)

	// List
	req := httptest.NewRequest(http.MethodGet, "/v1/designs", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), saved.ID.String())

	// Get
	req = httptest.NewRequest(http.MethodGet, "/v1/designs/"+saved.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/v1/designs/"+saved.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Gone
	req = httptest.NewRequest(http.MethodGet, "/v1/designs/"+saved.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDesignRejectsInvalidID(t *testing.T) {
	router := testServer(t, NewMemoryStoreForTest(t)).Router()

	req := httptest.NewRequest(http.MethodGet, "/v1/designs/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := testServer(t, nil).Router()

	req := httptest.NewRequest(http.MethodOptions, "/v1/compose", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// NewMemoryStoreForTest closes the store with the test.
func NewMemoryStoreForTest(t *testing.T) store.Store {
	t.Helper()
	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}
