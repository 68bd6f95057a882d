package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classpulse/internal/config"
	"classpulse/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Security.RateLimit.Enabled = false
	cfg.Telemetry.Enabled = false
	return cfg
}

func seedPeriods(t *testing.T, cfg *config.Config) {
	t.Helper()
	dir := filepath.Join(cfg.Paths.BaseDir, cfg.Paths.DataDir)
	require.NoError(t, os.MkdirAll(dir, 0755))

	testutil.WriteWorkbook(t, dir, "3月", testutil.StandardHeaders, [][]interface{}{
		testutil.ScoreRow(1, "高一1班", 0, 0, 0, 95),
		testutil.ScoreRow(2, "高一2班", 0, 0, 0, 80),
	})
	testutil.WriteWorkbook(t, dir, "4月", testutil.StandardHeaders, [][]interface{}{
		testutil.ScoreRow(1, "高一1班", -1, 0, -2, 90),
		testutil.ScoreRow(2, "高一2班", 0, 0, 0, 85),
	})
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := New(cfg, logger)
	require.NoError(t, err)
	return app
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNew_WiresRoutes(t *testing.T) {
	cfg := testConfig(t)
	seedPeriods(t, cfg)
	app := newTestApp(t, cfg)

	assert.Equal(t, ":8080", app.Server.Addr)
	assert.DirExists(t, app.Paths.ReportsDir)
	assert.DirExists(t, app.Paths.LogsDir)

	t.Run("health", func(t *testing.T) {
		w := get(t, app.Router, "/api/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("readiness", func(t *testing.T) {
		w := get(t, app.Router, "/api/health/ready")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("periods", func(t *testing.T) {
		w := get(t, app.Router, "/api/periods")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body struct {
			Count   int `json:"count"`
			Periods []struct {
				Period string `json:"period"`
			} `json:"periods"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 2, body.Count)
		assert.Equal(t, "3月", body.Periods[0].Period)
		assert.Equal(t, "4月", body.Periods[1].Period)
	})

	t.Run("trend", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analysis/trend", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body struct {
			Risks []struct {
				Entity    string  `json:"entity"`
				NetChange float64 `json:"net_change"`
			} `json:"risks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Risks, 1)
		assert.Equal(t, "高一1班", body.Risks[0].Entity)
		assert.InDelta(t, -5, body.Risks[0].NetChange, 1e-9)
	})

	t.Run("unknown route is a problem document", func(t *testing.T) {
		w := get(t, app.Router, "/api/nothing-here")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	})
}

func TestNew_CORS(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/periods", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_PrometheusEndpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.Enabled = true
	app := newTestApp(t, cfg)
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })

	get(t, app.Router, "/api/health")

	w := get(t, app.Router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "classpulse_http_requests")
}

func TestNew_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, get(t, app.Router, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, app.Router, "/api/health").Code)
}
