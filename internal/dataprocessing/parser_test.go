package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "classpulse/internal/errors"
	"classpulse/internal/shared/testutil"
)

func TestParseFile_Workbook(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "3月", testutil.StandardHeaders, [][]interface{}{
		testutil.ScoreRow(1, "高一1班", -2, 0, 1, 99),
		testutil.ScoreRow(2, "高一2班", 0, -1.5, 0, nil),
	})

	table, err := ParseFile(path, "3月", DefaultParseOptions())
	require.NoError(t, err)

	assert.Equal(t, testutil.StandardHeaders, table.Columns)
	require.Equal(t, 2, table.Len())

	first := table.Rows[0]
	assert.Equal(t, "3月", first.Period)
	assert.Equal(t, "高一1班", first.Get("班级").Text)
	assert.Equal(t, 99.0, first.Get("实际班级总分").Number.Float64)
	assert.Equal(t, -2.0, first.Get("手机管理").Number.Float64)

	second := table.Rows[1]
	assert.False(t, second.Get("实际班级总分").Number.Valid)
	assert.Equal(t, -1.5, second.Get("两操").Number.Float64)
}

func TestParseFile_CSVSkipsTitleRows(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "4月",
		[]string{"编号", "班级", "", "Unnamed: 3", "实际班级总分"},
		[][]string{
			{"1", "高一1班", "x", "y", "1,001.5"},
			{"", "", "", "", ""},
			{"2", "高一2班", "", "", "abc"},
		})

	table, err := ParseFile(path, "4月", DefaultParseOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"编号", "班级", "实际班级总分"}, table.Columns)
	require.Equal(t, 2, table.Len(), "blank rows are skipped")
	assert.Equal(t, 1001.5, table.Rows[0].Get("实际班级总分").Number.Float64)
	assert.False(t, table.Rows[1].Get("实际班级总分").Number.Valid)
	assert.Equal(t, "abc", table.Rows[1].Get("实际班级总分").Text)
}

func TestParseFile_CSVStripsByteOrderMark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "4月.csv")
	content := "\uFEFF编号,班级,实际班级总分\n1,高一1班,98\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := ParseFile(path, "4月", ParseOptions{CSVSkipRows: 0})
	require.NoError(t, err)

	assert.Equal(t, []string{"编号", "班级", "实际班级总分"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 1.0, table.Rows[0].Get("编号").Number.Float64)
}

func TestParseFile_DuplicateHeaders(t *testing.T) {
	table := buildTable([]string{"班级", "两操", "两操"}, [][]string{{"A", "1", "2"}}, "1月")

	assert.Equal(t, []string{"班级", "两操", "两操.1"}, table.Columns)
	assert.Equal(t, 2.0, table.Rows[0].Get("两操.1").Number.Float64)
}

func TestParseFile_Errors(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "5月.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))

	short := filepath.Join(dir, "6月.csv")
	require.NoError(t, os.WriteFile(short, []byte("title\n"), 0o644))

	corrupt := filepath.Join(dir, "7月.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", txt},
		{"csv without header", short},
		{"corrupt workbook", corrupt},
		{"missing file", filepath.Join(dir, "8月.xlsx")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.path, "x", DefaultParseOptions())
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
		})
	}
}
