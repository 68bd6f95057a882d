package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	apperrors "classpulse/internal/errors"
	"classpulse/internal/period"
	"classpulse/pkg/contracts/domain"
)

// Source loads the table of one period label.
type Source interface {
	Load(ctx context.Context, label string) (*domain.Table, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, label string) (*domain.Table, error)

// Load calls f(ctx, label).
func (f SourceFunc) Load(ctx context.Context, label string) (*domain.Table, error) {
	return f(ctx, label)
}

// FileSource reads period files from disk. Files are opened read-only.
type FileSource struct {
	paths map[string]string
	opts  ParseOptions
}

// NewFileSource creates a FileSource over label -> path.
func NewFileSource(paths map[string]string, opts ParseOptions) *FileSource {
	return &FileSource{paths: paths, opts: opts}
}

// Load parses the file registered for label.
func (s *FileSource) Load(ctx context.Context, label string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := s.paths[label]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("period file for %q", label))
	}
	return ParseFile(path, label, s.opts)
}

// Path returns the file registered for label.
func (s *FileSource) Path(label string) string {
	return s.paths[label]
}

// LabelFromPath derives the period label of a file from its base name.
func LabelFromPath(path string) string {
	base := filepath.Base(path)
	return period.Normalize(strings.TrimSuffix(base, filepath.Ext(base)))
}

// LoadResult is the combined dataset plus the files that failed to load.
type LoadResult struct {
	Table    *domain.Table
	Periods  []string
	Failures []domain.FileFailure
}

// Loader combines several period files into one table.
type Loader struct {
	logger *slog.Logger
	opts   ParseOptions
	source func(paths map[string]string) Source
}

// NewLoader creates a Loader reading files with opts.
func NewLoader(logger *slog.Logger, opts ParseOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With("component", "loader"),
		opts:   opts,
		source: func(paths map[string]string) Source { return NewFileSource(paths, opts) },
	}
}

// WithSource replaces the file-backed Source, mainly for tests.
func (l *Loader) WithSource(src Source) *Loader {
	clone := *l
	clone.source = func(map[string]string) Source { return src }
	return &clone
}

// Load reads every file and concatenates the tables by column name. At
// least two distinct period labels are required; the check runs before any
// file is read. A file that fails is recorded and skipped. When nothing
// loads a DataUnavailableError is returned.
func (l *Loader) Load(ctx context.Context, files []string) (*LoadResult, error) {
	labels, paths := l.selection(files)
	if len(labels) < 2 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("insufficient periods: trend analysis needs at least 2 distinct periods, got %d", len(labels))).
			WithContext("periods", labels)
	}
	return l.load(ctx, labels, paths)
}

// LoadOne reads the first file of files. Ranking and the per-period
// reports use it; the two-period minimum does not apply.
func (l *Loader) LoadOne(ctx context.Context, files []string) (*LoadResult, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no period file selected")
	}
	labels, paths := l.selection(files[:1])
	return l.load(ctx, labels, paths)
}

// LoadAny reads one or more files without the two-period minimum.
func (l *Loader) LoadAny(ctx context.Context, files []string) (*LoadResult, error) {
	labels, paths := l.selection(files)
	if len(labels) == 0 {
		return nil, apperrors.NewValidationError("no period files selected")
	}
	return l.load(ctx, labels, paths)
}

func (l *Loader) selection(files []string) ([]string, map[string]string) {
	paths := make(map[string]string, len(files))
	var labels []string
	for _, f := range files {
		label := LabelFromPath(f)
		if existing, ok := paths[label]; ok {
			l.logger.Warn("duplicate period label, keeping first file",
				slog.String("period", label),
				slog.String("kept", existing),
				slog.String("ignored", f))
			continue
		}
		paths[label] = f
		labels = append(labels, label)
	}
	return labels, paths
}

func (l *Loader) load(ctx context.Context, labels []string, paths map[string]string) (*LoadResult, error) {
	src := l.source(paths)
	result := &LoadResult{}
	var tables []*domain.Table
	var errs []error

	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := src.Load(ctx, label)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.logger.WarnContext(ctx, "failed to load period file",
				slog.String("period", label),
				slog.String("path", paths[label]),
				slog.String("error", err.Error()))
			result.Failures = append(result.Failures, domain.FileFailure{
				Period: label,
				Path:   paths[label],
				Error:  err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
			continue
		}

		stampPeriod(table, label)
		tables = append(tables, table)
		result.Periods = append(result.Periods, label)
		l.logger.DebugContext(ctx, "period file loaded",
			slog.String("period", label),
			slog.Int("rows", table.Len()))
	}

	if len(tables) == 0 {
		return nil, apperrors.NewDataUnavailableError("no period file could be loaded", errors.Join(errs...)).
			WithContext("failures", result.Failures)
	}

	result.Table = domain.Concat(tables...)
	l.logger.InfoContext(ctx, "period files combined",
		slog.Int("loaded", len(tables)),
		slog.Int("failed", len(result.Failures)),
		slog.Int("rows", result.Table.Len()))

	return result, nil
}

func stampPeriod(table *domain.Table, label string) {
	for i := range table.Rows {
		table.Rows[i].Period = label
	}
}
