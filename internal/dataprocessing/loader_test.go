package dataprocessing

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "classpulse/internal/errors"
	"classpulse/internal/shared/testutil"
	"classpulse/pkg/contracts/domain"
)

func newTestLoader(t *testing.T) (*Loader, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	return NewLoader(logger, DefaultParseOptions()), handler
}

func TestLoader_CombinesPeriodFiles(t *testing.T) {
	dir := t.TempDir()
	march := testutil.WriteWorkbook(t, dir, "3月", testutil.StandardHeaders, [][]interface{}{
		testutil.ScoreRow(1, "高一1班", 0, 0, 0, 95),
		testutil.ScoreRow(2, "高一2班", -1, 0, 0, 80),
	})
	april := testutil.WriteCSV(t, dir, "4月", []string{"班级", "实际班级总分", "违规违纪"}, [][]string{
		{"高一1班", "93", "-2"},
	})

	loader, _ := newTestLoader(t)
	result, err := loader.Load(context.Background(), []string{march, april})
	require.NoError(t, err)

	assert.Equal(t, []string{"3月", "4月"}, result.Periods)
	assert.Empty(t, result.Failures)
	require.Equal(t, 3, result.Table.Len())
	assert.Equal(t, append(append([]string(nil), testutil.StandardHeaders...), "违规违纪"), result.Table.Columns)

	last := result.Table.Rows[2]
	assert.Equal(t, "4月", last.Period)
	assert.Equal(t, -2.0, last.Get("违规违纪").Number.Float64)
	assert.True(t, last.Get("手机管理").IsEmpty(), "columns absent from a period read as missing")
}

func TestLoader_RequiresTwoDistinctPeriods(t *testing.T) {
	calls := 0
	src := SourceFunc(func(ctx context.Context, label string) (*domain.Table, error) {
		calls++
		return &domain.Table{}, nil
	})

	tests := []struct {
		name  string
		files []string
	}{
		{"none", nil},
		{"one file", []string{"data/9月.xlsx"}},
		{"same label twice", []string{"data/9月.xlsx", "other/9月.csv"}},
		{"full-width duplicate", []string{"data/9月.xlsx", "data/９月.xlsx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newTestLoader(t)
			_, err := loader.WithSource(src).Load(context.Background(), tt.files)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), "insufficient periods")
		})
	}
	assert.Zero(t, calls, "no file is read when the selection is rejected")
}

func TestLoader_RecordsFailuresAndContinues(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, label string) (*domain.Table, error) {
		if label == "2月" {
			return nil, errors.New("sheet is corrupt")
		}
		return &domain.Table{
			Columns: []string{"班级", "实际班级总分"},
			Rows: []domain.Row{{Values: map[string]domain.Cell{
				"班级":     domain.NewCell("A"),
				"实际班级总分": domain.NewCell("90"),
			}}},
		}, nil
	})

	loader, handler := newTestLoader(t)
	result, err := loader.WithSource(src).Load(context.Background(),
		[]string{"d/1月.xlsx", "d/2月.xlsx", "d/3月.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{"1月", "3月"}, result.Periods)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "2月", result.Failures[0].Period)
	assert.Equal(t, "d/2月.xlsx", result.Failures[0].Path)
	assert.Contains(t, result.Failures[0].Error, "corrupt")
	assert.Equal(t, "3月", result.Table.Rows[1].Period, "rows are stamped with their label")
	assert.True(t, handler.ContainsMessage("failed to load period file"))
}

func TestLoader_NothingLoads(t *testing.T) {
	dir := t.TempDir()
	loader, _ := newTestLoader(t)

	_, err := loader.Load(context.Background(), []string{
		filepath.Join(dir, "1月.xlsx"),
		filepath.Join(dir, "2月.xlsx"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataUnavailable)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	failures, ok := appErr.Context["failures"].([]domain.FileFailure)
	require.True(t, ok)
	assert.Len(t, failures, 2)
}

func TestLoader_DuplicateLabelKeepsFirst(t *testing.T) {
	var loaded []string
	src := SourceFunc(func(ctx context.Context, label string) (*domain.Table, error) {
		loaded = append(loaded, label)
		return &domain.Table{}, nil
	})

	loader, handler := newTestLoader(t)
	_, err := loader.WithSource(src).Load(context.Background(),
		[]string{"a/9月.xlsx", "b/9月.xlsx", "a/10月.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{"9月", "10月"}, loaded)
	assert.True(t, handler.ContainsAttr("ignored", "b/9月.xlsx"))
}

func TestLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader, _ := newTestLoader(t)
	_, err := loader.Load(ctx, []string{"1月.xlsx", "2月.xlsx"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_LoadOne(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "5月", testutil.StandardHeaders, [][]interface{}{
		testutil.ScoreRow(1, "高一1班", 0, 0, 0, 95),
	})

	loader, _ := newTestLoader(t)
	result, err := loader.LoadOne(context.Background(), []string{path, filepath.Join(dir, "6月.xlsx")})
	require.NoError(t, err)
	assert.Equal(t, []string{"5月"}, result.Periods, "only the first file is read")
	assert.Equal(t, 1, result.Table.Len())
	assert.Empty(t, result.Failures)

	_, err = loader.LoadOne(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestLabelFromPath(t *testing.T) {
	assert.Equal(t, "9月", LabelFromPath("/data/９月.xlsx"))
	assert.Equal(t, "10月", LabelFromPath("10月.csv"))
	assert.Equal(t, "notes", LabelFromPath("dir/notes.txt"))
}
