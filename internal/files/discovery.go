package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "classpulse/internal/errors"
	"classpulse/internal/period"
	"classpulse/internal/validation"
	"classpulse/pkg/contracts/domain"
)

// Discovery finds period files in the data directory
type Discovery struct {
	basePath  string
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		basePath:  basePath,
		validator: validation.NewFileValidator(logger),
		logger:    logger.With("component", "discovery"),
	}
}

// BasePath returns the directory searched by FindPeriodFiles
func (d *Discovery) BasePath() string {
	return d.basePath
}

// FindPeriodFiles lists the valid period files in the data directory in
// chronological order. When a label has both a workbook and a CSV the
// workbook wins.
func (d *Discovery) FindPeriodFiles() ([]domain.PeriodFile, error) {
	if err := d.validator.ValidateInputDirectory(d.basePath); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	byLabel := make(map[string]domain.PeriodFile)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(d.basePath, entry.Name())
		if err := d.validator.ValidatePeriodFile(path); err != nil {
			d.logger.Debug("Ignoring file", slog.String("file", entry.Name()), slog.String("reason", err.Error()))
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		label := labelOf(entry.Name())
		pf := domain.PeriodFile{Period: label, Path: path, Size: info.Size(), ModTime: info.ModTime()}
		if existing, ok := byLabel[label]; ok && !preferred(pf.Path, existing.Path) {
			continue
		}
		byLabel[label] = pf
	}

	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	out := make([]domain.PeriodFile, 0, len(labels))
	for _, l := range period.Sort(labels) {
		out = append(out, byLabel[l])
	}
	return out, nil
}

// Resolve maps period labels onto their files, keeping the caller's order.
// An unknown label is an UnknownPeriodError; a known label without a file
// is a NotFoundError.
func (d *Discovery) Resolve(labels []string) ([]string, error) {
	available, err := d.FindPeriodFiles()
	if err != nil {
		return nil, err
	}
	byLabel := make(map[string]string, len(available))
	for _, pf := range available {
		byLabel[pf.Period] = pf.Path
	}

	paths := make([]string, 0, len(labels))
	for _, l := range labels {
		label := period.Normalize(l)
		if _, err := period.Rank(label); err != nil {
			return nil, err
		}
		path, ok := byLabel[label]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("period file for %s", label)).
				WithContext("period", label)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func labelOf(name string) string {
	return period.Normalize(strings.TrimSuffix(name, filepath.Ext(name)))
}

// preferred reports whether candidate should replace current for the same
// label: workbooks beat CSV exports, otherwise the lexically first name.
func preferred(candidate, current string) bool {
	ci := strings.EqualFold(filepath.Ext(candidate), ".xlsx")
	cu := strings.EqualFold(filepath.Ext(current), ".xlsx")
	if ci != cu {
		return ci
	}
	return filepath.Base(candidate) < filepath.Base(current)
}
