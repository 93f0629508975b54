package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-offers/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"}.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	h := newRouter(handler.NewServer(nil, nil, nil))

	rec := do(t, h, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestGetOpenAPI_servesEmbeddedSpec(t *testing.T) {
	h := newRouter(handler.NewServer(nil, nil, nil))

	rec := do(t, h, http.MethodGet, "/openapi.yaml", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
}

func TestRouter_unknownRouteReturnsJSON404(t *testing.T) {
	h := newRouter(handler.NewServer(nil, nil, nil))

	rec := do(t, h, http.MethodGet, "/nope", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestRouter_wrongMethodReturns405(t *testing.T) {
	h := newRouter(handler.NewServer(nil, nil, nil))

	rec := do(t, h, http.MethodGet, "/runs", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_appliesCORS(t *testing.T) {
	h := newRouter(handler.NewServer(nil, nil, nil))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
