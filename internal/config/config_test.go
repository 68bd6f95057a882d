package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "classpulse/internal/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "zero", cfg.Analysis.Imputation)
				assert.Equal(t, 5, cfg.Analysis.TopN)
				assert.Equal(t, 5, cfg.Analysis.BottomN)
				assert.Equal(t, 2, cfg.Analysis.CSVSkipRows)
				assert.Equal(t, []string{"实际班级总分", "总分"}, cfg.Analysis.Columns.TotalScore)
				assert.Equal(t, "data", cfg.Paths.DataDir)
			},
		},
		{
			name: "file overrides defaults",
			fileContent: `
server:
  port: 9100
  read_timeout: 5s
analysis:
  imputation: drop
  top_n: 3
  columns:
    entity: [班级名称]
    total_score: [总分]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "drop", cfg.Analysis.Imputation)
				assert.Equal(t, 3, cfg.Analysis.TopN)
				assert.Equal(t, 5, cfg.Analysis.BottomN, "untouched keys keep defaults")
				assert.Equal(t, []string{"班级名称"}, cfg.Analysis.Columns.Entity)
			},
		},
		{
			name: "env overrides file",
			setupEnv: func(t *testing.T) {
				t.Setenv("CLASSPULSE_SERVER_PORT", "9200")
				t.Setenv("CLASSPULSE_ANALYSIS_COLUMNS_TOTAL_SCORE", "总分,合计")
			},
			fileContent: "server:\n  port: 9100\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9200, cfg.Server.Port)
				assert.Equal(t, []string{"总分", "合计"}, cfg.Analysis.Columns.TotalScore)
			},
		},
		{
			name: "invalid imputation policy",
			setupEnv: func(t *testing.T) {
				t.Setenv("CLASSPULSE_ANALYSIS_IMPUTATION", "mean")
			},
			wantErr: true,
		},
		{
			name: "invalid port",
			setupEnv: func(t *testing.T) {
				t.Setenv("CLASSPULSE_SERVER_PORT", "70000")
			},
			wantErr: true,
		},
		{
			name:        "empty entity mapping",
			fileContent: "analysis:\n  columns:\n    entity: []\n",
			wantErr:     true,
		},
		{
			name:        "malformed yaml",
			fileContent: "server: [",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.fileContent != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileContent), 0644))
			} else {
				require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestConfig_ResolvePaths(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "data", cfg.GetDataDir())

	cfg.Paths.BaseDir = "/srv/classpulse"
	assert.Equal(t, filepath.Join("/srv/classpulse", "data"), cfg.GetDataDir())
	assert.Equal(t, filepath.Join("/srv/classpulse", "reports"), cfg.GetReportsDir())

	cfg.Paths.LogsDir = "/var/log/classpulse"
	assert.Equal(t, "/var/log/classpulse", cfg.GetLogsDir())
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths := NewPaths(cfg)
	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, filepath.Join(base, "reports"))
	assert.DirExists(t, filepath.Join(base, "logs"))
	assert.NoDirExists(t, filepath.Join(base, "data"))
	assert.Equal(t, filepath.Join(base, "reports", RiskReportCSV), paths.GetReportPath(RiskReportCSV))
}

func TestColumnMapping_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		columns   []string
		want      ResolvedColumns
		wantField string
	}{
		{
			name:    "full sheet",
			columns: []string{"编号", "班级", "班级教室", "初始分数", "手机管理", "实际班级总分", "月份"},
			want: ResolvedColumns{
				Entity: "班级", TotalScore: "实际班级总分", ID: "编号",
				InitialScore: "初始分数", Classroom: "班级教室", Period: "月份",
			},
		},
		{
			name:    "fallback total name",
			columns: []string{"班级", "总分"},
			want:    ResolvedColumns{Entity: "班级", TotalScore: "总分"},
		},
		{
			name:    "priority order wins",
			columns: []string{"总分", "班级", "实际班级总分"},
			want:    ResolvedColumns{Entity: "班级", TotalScore: "实际班级总分"},
		},
		{
			name:      "substring is not a match",
			columns:   []string{"班级", "实际班级总分(调整前)"},
			wantField: "total_score",
		},
		{
			name:      "missing entity",
			columns:   []string{"实际班级总分"},
			wantField: "entity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultColumnMapping().Resolve(tt.columns)
			if tt.wantField != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantField, appErr.Context["field"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvedColumns_IsMetadata(t *testing.T) {
	r := ResolvedColumns{Entity: "班级", TotalScore: "实际班级总分", ID: "编号"}

	assert.True(t, r.IsMetadata("编号"))
	assert.False(t, r.IsMetadata("手机管理"))
	assert.Len(t, r.Metadata(), 3)
}
