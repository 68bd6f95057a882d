package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "classpulse/internal/errors"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func TestFindPeriodFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "10月.xlsx", "9月.csv", "9月.xlsx", "2月.csv", "notes.txt", "13月.xlsx", "~$10月.xlsx", "１１月.xlsx")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "3月.xlsx"), 0o755))

	found, err := NewDiscovery(dir, nil).FindPeriodFiles()
	require.NoError(t, err)

	var labels, names []string
	for _, f := range found {
		labels = append(labels, f.Period)
		names = append(names, filepath.Base(f.Path))
	}
	assert.Equal(t, []string{"2月", "9月", "10月", "11月"}, labels)
	assert.Equal(t, []string{"2月.csv", "9月.xlsx", "10月.xlsx", "１１月.xlsx"}, names)
	assert.EqualValues(t, 1, found[0].Size)
}

func TestFindPeriodFiles_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(filepath.Join(t.TempDir(), "nope"), nil).FindPeriodFiles()
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "9月.xlsx", "10月.csv")
	d := NewDiscovery(dir, nil)

	paths, err := d.Resolve([]string{"10月", "９月"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "10月.csv"), filepath.Join(dir, "9月.xlsx")}, paths)

	_, err = d.Resolve([]string{"9月", "13月"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownPeriod)

	_, err = d.Resolve([]string{"9月", "11月"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestPreferred(t *testing.T) {
	assert.True(t, preferred("a/9月.xlsx", "a/9月.csv"))
	assert.False(t, preferred("a/9月.csv", "a/9月.xlsx"))
	assert.True(t, preferred("a/9月.XLSX", "a/9月.xlsx"), "ties break on name")
}
