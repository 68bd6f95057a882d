package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classpulse/internal/config"
	"classpulse/internal/services"
	"classpulse/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	ready := NewHealthHandler(services.NewHealthService("1.0.0", "2026-01-01",
		&config.Paths{DataDir: t.TempDir(), ReportsDir: t.TempDir()}, logger), logger)
	notReady := NewHealthHandler(services.NewHealthService("1.0.0", "",
		&config.Paths{DataDir: filepath.Join(t.TempDir(), "absent")}, logger), logger)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{"health", ready.HealthCheck, http.StatusOK, "status", "ok"},
		{"liveness", ready.LivenessCheck, http.StatusOK, "status", "alive"},
		{"ready", ready.ReadinessCheck, http.StatusOK, "status", "ready"},
		{"not ready", notReady.ReadinessCheck, http.StatusServiceUnavailable, "status", "not_ready"},
		{"version", ready.Version, http.StatusOK, "version", "1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantValue, body[tt.wantField])
		})
	}
}
