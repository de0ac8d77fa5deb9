package web

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitbox/internal/metrics"
)

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ok HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &ok))
	assert.Equal(t, "ok", ok.Status)

	env.pingOK.Store(false)
	resp, body = env.get(t, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var down HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &down))
	assert.Equal(t, "unavailable", down.Status)
	assert.Equal(t, "database connection failed", down.Message)
	assert.NotContains(t, body, errDBDown.Error(), "internal errors are not exposed")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/")

	resp, body := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, metrics.MetricNameHTTPRequestsTotal)
}

func TestPerfDashboard(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/debug/perf")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "dashboard needs a signed-in user")

	env.login(t)
	env.get(t, "/master_list")

	resp, body := env.get(t, "/debug/perf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Performance (last 1h0m0s)")
	assert.Contains(t, body, "Slowest pages")
	assert.Contains(t, body, "/master_list")
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/")
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/static/style.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".slot-Head")
}
