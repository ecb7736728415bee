package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakeven/core/engine"
)

func newTestServer() *Server {
	return NewServer("test", engine.New(engine.DefaultConfig()), nil, Options{MaxProducts: 3})
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestBreakEvenEndpoint(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/v1/break-even",
		`{"fixed_costs": 10000, "unit_price": 50, "unit_variable_cost": 30, "expected_units": 800}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	body := decodeBody(t, rec)
	result := body["result"].(map[string]interface{})
	analysis := result["analysis"].(map[string]interface{})
	breakEven := analysis["break_even"].(map[string]interface{})
	assert.Equal(t, "500", breakEven["units"])
	assert.Equal(t, "25000", breakEven["value"])

	margin := analysis["safety_margin"].(map[string]interface{})
	assert.Equal(t, "37.5", margin["percent"])

	meta := body["metadata"].(map[string]interface{})
	assert.Equal(t, "test", meta["engine_version"])
	assert.Len(t, meta["input_hash"], 64)
}

func TestBreakEvenEndpointRejectsInvalidModel(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/v1/break-even", `{"fixed_costs": 100, "unit_price": 20, "unit_variable_cost": 30}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_MODEL", errBody["code"])
	assert.NotEmpty(t, errBody["request_id"])
}

func TestChartEndpoint(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/v1/chart",
		`{"fixed_costs": "10000", "unit_price": "50", "unit_variable_cost": "30", "max_units": 990}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	points := body["result"].(map[string]interface{})["points"].([]interface{})
	require.Len(t, points, 100)
	last := points[99].(map[string]interface{})
	assert.Equal(t, "990", last["units"])
	assert.Equal(t, "9800", last["profit"])
}

func TestMultiProductEndpoint(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/v1/multi-product", `{
		"products": [
			{"name": "A", "unit_price": 100, "unit_variable_cost": 60, "mix_share": 0.6},
			{"name": "B", "unit_price": 50, "unit_variable_cost": 30, "mix_share": 0.4}
		],
		"total_fixed_costs": 10000
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody(t, rec)["result"].(map[string]interface{})
	assert.Equal(t, "312.5", result["total_break_even_units"])
	assert.Equal(t, "25000", result["total_break_even_value"])
}

func TestMultiProductEndpointErrors(t *testing.T) {
	s := newTestServer()

	rec := post(t, s, "/v1/multi-product", `{"products": [
		{"name": "A", "unit_price": 100, "unit_variable_cost": 60, "mix_share": 0.5},
		{"name": "B", "unit_price": 50, "unit_variable_cost": 30, "mix_share": 0.6}
	]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errBody := decodeBody(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_MIX", errBody["code"])
	assert.Contains(t, errBody["message"], "110%")

	rec = post(t, s, "/v1/multi-product", `{"products": [
		{"name": "A", "unit_price": 2, "unit_variable_cost": 1, "mix_share": 0.25},
		{"name": "B", "unit_price": 2, "unit_variable_cost": 1, "mix_share": 0.25},
		{"name": "C", "unit_price": 2, "unit_variable_cost": 1, "mix_share": 0.25},
		{"name": "D", "unit_price": 2, "unit_variable_cost": 1, "mix_share": 0.25}
	]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSensitivityEndpoint(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/v1/sensitivity",
		`{"fixed_costs": 10000, "unit_price": 50, "unit_variable_cost": 30, "driver": "fixed_costs"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody(t, rec)["result"].(map[string]interface{})
	assert.Len(t, result["points"], 7)
	assert.Equal(t, "1", result["elasticity"])
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/v1/analyze", `{
		"costs": {"fixed_costs": 10000, "unit_price": 50, "unit_variable_cost": 30},
		"target_profit": 6000
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody(t, rec)["result"].(map[string]interface{})
	assert.Equal(t, "800", result["target_units"])
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer()

	rec := post(t, s, "/v1/break-even", `{"fixed_costs": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, s, "/v1/break-even", `{"fixed_cost": 1, "unit_price": 2, "unit_variable_cost": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/health", "/version"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	post(t, s, "/v1/break-even", `{"fixed_costs": 10000, "unit_price": 50, "unit_variable_cost": 30}`)
	post(t, s, "/v1/break-even", `{"fixed_costs": 100, "unit_price": 20, "unit_variable_cost": 30}`)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := rec.Body.String()
	assert.Contains(t, out, `breakeven_http_requests_total{method="POST",route="/v1/break-even",status="200"} 1`)
	assert.Contains(t, out, `breakeven_http_requests_total{method="POST",route="/v1/break-even",status="422"} 1`)
	assert.Contains(t, out, `breakeven_engine_errors_total{type="INVALID_MODEL"} 1`)
	assert.Contains(t, out, "breakeven_http_request_duration_seconds_bucket")
}
