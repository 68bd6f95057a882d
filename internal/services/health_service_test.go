package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"classpulse/internal/config"
	"classpulse/internal/shared/testutil"
)

func TestHealthService_Readiness(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	tests := []struct {
		name  string
		paths *config.Paths
		want  string
	}{
		{
			name:  "data directory present",
			paths: &config.Paths{DataDir: t.TempDir(), ReportsDir: filepath.Join(t.TempDir(), "reports")},
			want:  "ready",
		},
		{
			name:  "data directory missing",
			paths: &config.Paths{DataDir: filepath.Join(t.TempDir(), "absent"), ReportsDir: t.TempDir()},
			want:  "not_ready",
		},
		{
			name: "no paths",
			want: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", "", tt.paths, logger)
			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			assert.Contains(t, status.Services, "data")
		})
	}
}

func TestHealthService_HealthAndLiveness(t *testing.T) {
	hs := NewHealthService("1.2.3", "2026-01-01", nil, nil)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, "2026-01-01", version["build_time"])
}
