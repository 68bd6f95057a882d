package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"classpulse/internal/config"
	"classpulse/internal/dataprocessing"
	apperrors "classpulse/internal/errors"
	"classpulse/internal/exporter"
	"classpulse/internal/files"
	"classpulse/internal/infrastructure"
	"classpulse/internal/period"
	"classpulse/internal/validation"
	"classpulse/pkg/contracts/domain"
)

// AnalysisService runs the scoring pipeline. Every call loads its input
// files again and recomputes from scratch.
type AnalysisService struct {
	cfg       config.AnalysisConfig
	paths     *config.Paths
	discovery *files.Discovery
	loader    *dataprocessing.Loader
	exporter  *exporter.ReportExporter
	validator *validation.FileValidator
	policy    dataprocessing.ImputationPolicy
	tracer    trace.Tracer
	metrics   *infrastructure.PipelineMetrics
	logger    *slog.Logger
}

// ServiceOption configures an AnalysisService.
type ServiceOption func(*AnalysisService)

// WithTracer sets the tracer used for per-call spans.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *AnalysisService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the pipeline metric instruments.
func WithMetrics(m *infrastructure.PipelineMetrics) ServiceOption {
	return func(s *AnalysisService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithImputation overrides the configured imputation policy.
func WithImputation(p dataprocessing.ImputationPolicy) ServiceOption {
	return func(s *AnalysisService) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithSource replaces the file reader behind the loader.
func WithSource(src dataprocessing.Source) ServiceOption {
	return func(s *AnalysisService) {
		s.loader = s.loader.WithSource(src)
	}
}

// NewAnalysisService creates the service from the application config.
func NewAnalysisService(cfg *config.Config, logger *slog.Logger, opts ...ServiceOption) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "analysis_service")

	paths := config.NewPaths(cfg)
	s := &AnalysisService{
		cfg:       cfg.Analysis,
		paths:     paths,
		discovery: files.NewDiscovery(paths.DataDir, logger),
		loader:    dataprocessing.NewLoader(logger, dataprocessing.ParseOptions{CSVSkipRows: cfg.Analysis.CSVSkipRows}),
		exporter:  exporter.NewReportExporter(paths, logger),
		validator: validation.NewFileValidator(logger),
		policy:    dataprocessing.ImputationByName(cfg.Analysis.Imputation),
		tracer:    otel.Tracer(infrastructure.TracerName),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		m, err := infrastructure.NewPipelineMetrics(otel.Meter(infrastructure.MeterName))
		if err != nil {
			logger.Warn("pipeline metrics disabled", slog.String("error", err.Error()))
		}
		s.metrics = m
	}
	return s
}

// ListPeriods returns the period files in the data directory in
// chronological order.
func (s *AnalysisService) ListPeriods(ctx context.Context) (_ []domain.PeriodFile, err error) {
	ctx, end := s.begin(ctx, "list_periods")
	defer func() { end(err) }()

	if err := s.validator.ValidateInputDirectory(s.discovery.BasePath()); err != nil {
		return nil, err
	}
	return s.discovery.FindPeriodFiles()
}

// RunTrend fits every entity's score history over the selected periods and
// returns the entities with a falling trend. At least two distinct periods
// are required. An empty selection uses every discovered period.
func (s *AnalysisService) RunTrend(ctx context.Context, selection []string) (_ *TrendReport, err error) {
	ctx, end := s.begin(ctx, "trend", attribute.Int("selection", len(selection)))
	defer func() { end(err) }()

	state, err := s.run(ctx, selection, s.loader.Load)
	if err != nil {
		return nil, err
	}
	state, err = s.analyze(ctx, state)
	if err != nil {
		return nil, err
	}

	return &TrendReport{
		RunID:      state.RunID,
		Periods:    state.Periods,
		Imputation: s.policy.Name(),
		Analyzed:   state.Trend.Analyzed,
		Risks:      state.Trend.Risks,
		Skipped:    state.Trend.Skipped,
		Failures:   state.Failures,
	}, nil
}

// RunRanking ranks the entities of one period. An empty label selects the
// latest discovered period.
func (s *AnalysisService) RunRanking(ctx context.Context, label string) (_ *RankingReport, err error) {
	ctx, end := s.begin(ctx, "ranking", attribute.String("period", label))
	defer func() { end(err) }()

	state, err := s.runOne(ctx, label)
	if err != nil {
		return nil, err
	}

	p := state.Periods[0]
	result := s.ranker().Rank(p, state.Observations)
	return &RankingReport{
		RunID:   state.RunID,
		Period:  p,
		Stats:   result.Stats,
		Entries: result.Entries,
		Top:     result.Top(s.cfg.TopN),
		Bottom:  result.Bottom(s.cfg.BottomN),
	}, nil
}

// RunItems returns the assessment item statistics of one period.
func (s *AnalysisService) RunItems(ctx context.Context, label string) (_ *ItemsReport, err error) {
	ctx, end := s.begin(ctx, "items", attribute.String("period", label))
	defer func() { end(err) }()

	state, err := s.runOne(ctx, label)
	if err != nil {
		return nil, err
	}

	stats := dataprocessing.ItemStatistics(state.Observations, state.Items)
	return &ItemsReport{
		RunID:         state.RunID,
		Period:        state.Periods[0],
		Items:         stats,
		HighFrequency: dataprocessing.HighFrequencyDeductions(stats),
	}, nil
}

// RunItemTrend returns one item's per-period mean, sum and count.
func (s *AnalysisService) RunItemTrend(ctx context.Context, selection []string, item string) (_ *ItemTrendReport, err error) {
	ctx, end := s.begin(ctx, "item_trend", attribute.String("item", item))
	defer func() { end(err) }()

	item = strings.TrimSpace(item)
	if item == "" {
		return nil, apperrors.NewValidationError("item is required")
	}

	state, err := s.run(ctx, selection, s.loader.LoadAny)
	if err != nil {
		return nil, err
	}
	if !contains(state.Items, item) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("assessment item %q", item)).
			WithContext("items", state.Items)
	}

	return &ItemTrendReport{
		RunID:    state.RunID,
		Item:     item,
		Periods:  dataprocessing.ItemTrend(state.Raw, item),
		Failures: state.Failures,
	}, nil
}

// RunQuality profiles one period's raw table before cleaning.
func (s *AnalysisService) RunQuality(ctx context.Context, label string) (_ *QualityResult, err error) {
	ctx, end := s.begin(ctx, "quality", attribute.String("period", label))
	defer func() { end(err) }()

	file, err := s.single(label)
	if err != nil {
		return nil, err
	}
	state, err := s.load(ctx, []string{file}, s.loader.LoadOne)
	if err != nil {
		return nil, err
	}
	return &QualityResult{
		RunID:  state.RunID,
		Period: state.Periods[0],
		Report: *state.Quality,
	}, nil
}

// RunDeductions lists the worst deductions and suggestions for the
// bottom-ranked entities of one period.
func (s *AnalysisService) RunDeductions(ctx context.Context, label string) (_ *DeductionsReport, err error) {
	ctx, end := s.begin(ctx, "deductions", attribute.String("period", label))
	defer func() { end(err) }()

	state, err := s.runOne(ctx, label)
	if err != nil {
		return nil, err
	}

	p := state.Periods[0]
	ranking := s.ranker().Rank(p, state.Observations)
	return &DeductionsReport{
		RunID:  state.RunID,
		Period: p,
		Reports: dataprocessing.DeductionReports(ranking, state.Observations, state.Items,
			s.cfg.BottomN, s.cfg.MaxDeductions),
	}, nil
}

// RunPivot builds the entity x period total-score matrix. A single period
// is accepted.
func (s *AnalysisService) RunPivot(ctx context.Context, selection []string) (_ *PivotReport, err error) {
	ctx, end := s.begin(ctx, "pivot", attribute.Int("selection", len(selection)))
	defer func() { end(err) }()

	state, err := s.run(ctx, selection, s.loader.LoadAny)
	if err != nil {
		return nil, err
	}
	return &PivotReport{
		RunID:    state.RunID,
		Pivot:    dataprocessing.Pivot(state.Raw),
		Failures: state.Failures,
	}, nil
}

// Export runs the trend pipeline and writes the risk, ranking, pivot and
// item reports. Ranking and items cover the latest loaded period. An empty
// dir writes into the reports directory.
func (s *AnalysisService) Export(ctx context.Context, selection []string, dir string) (_ *ExportResult, err error) {
	ctx, end := s.begin(ctx, "export", attribute.String("dir", dir))
	defer func() { end(err) }()

	if dir != "" {
		if err := s.validator.ValidateOutputDirectory(dir); err != nil {
			return nil, err
		}
	} else if err := s.paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to prepare reports directory: %w", err)
	}

	state, err := s.run(ctx, selection, s.loader.Load)
	if err != nil {
		return nil, err
	}
	state, err = s.analyze(ctx, state)
	if err != nil {
		return nil, err
	}

	latest := latestPeriod(state.Periods)
	current := state.ObservationsFor(latest)

	written, err := s.exporter.Export(ctx, dir, exporter.Report{
		Trend:   state.Trend,
		Ranking: s.ranker().Rank(latest, current),
		Pivot:   dataprocessing.Pivot(state.Raw),
		Items:   dataprocessing.ItemStatistics(current, state.Items),
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{RunID: state.RunID, Periods: state.Periods, Files: written}, nil
}

type loadFunc func(ctx context.Context, files []string) (*dataprocessing.LoadResult, error)

func (s *AnalysisService) runOne(ctx context.Context, label string) (PipelineState, error) {
	file, err := s.single(label)
	if err != nil {
		return PipelineState{}, err
	}
	return s.run(ctx, []string{file}, s.loader.LoadOne)
}

// single returns the selection for a one-period call. An empty label
// selects the latest discovered period.
func (s *AnalysisService) single(label string) (string, error) {
	if strings.TrimSpace(label) != "" {
		return label, nil
	}
	available, err := s.discovery.FindPeriodFiles()
	if err != nil {
		return "", err
	}
	if len(available) == 0 {
		return "", apperrors.NewDataUnavailableError("no period files found in "+s.discovery.BasePath(), nil)
	}
	return available[len(available)-1].Path, nil
}

// run loads the selection, maps the columns and derives observations from
// both the raw and the cleaned table. Ranking, items and deductions read the
// cleaned set; trend, item trend and pivot read the raw one.
func (s *AnalysisService) run(ctx context.Context, selection []string, load loadFunc) (PipelineState, error) {
	state, err := s.load(ctx, selection, load)
	if err != nil {
		return state, err
	}

	cols, err := s.cfg.Columns.Resolve(state.Combined.Columns)
	if err != nil {
		return state, err
	}

	raw := dataprocessing.Observations(state.Combined, cols)
	items := dataprocessing.ItemColumns(state.Combined, cols)

	state = state.withCleaned(dataprocessing.Clean(state.Combined, dataprocessing.CleanOptions{
		DropDuplicates: s.cfg.DropDuplicate,
		FillMissing:    s.cfg.FillMissing,
		Preserve:       []string{cols.TotalScore},
	}))
	state = state.withObservations(cols, items, raw,
		dataprocessing.Observations(state.Combined, cols))

	s.logger.DebugContext(ctx, "pipeline prepared",
		slog.String("run_id", state.RunID),
		slog.Any("periods", state.Periods),
		slog.Int("failures", len(state.Failures)),
		slog.Int("observations", len(state.Raw)),
		slog.Int("cleaned_observations", len(state.Observations)),
		slog.Int("items", len(state.Items)))
	return state, nil
}

// load reads the selection and profiles the raw combined table.
func (s *AnalysisService) load(ctx context.Context, selection []string, load loadFunc) (PipelineState, error) {
	state := newPipelineState()

	paths, err := s.resolve(selection)
	if err != nil {
		return state, err
	}

	res, err := load(ctx, paths)
	if err != nil {
		return state, err
	}
	s.metrics.RecordLoad(ctx, len(res.Periods), len(res.Failures))

	state = state.withLoad(res)
	return state.withQuality(dataprocessing.AssessQuality(res.Table)), nil
}

func (s *AnalysisService) analyze(ctx context.Context, state PipelineState) (PipelineState, error) {
	analyzer := dataprocessing.NewTrendAnalyzer(s.logger,
		dataprocessing.WithImputation(s.policy),
		dataprocessing.WithConcurrency(s.cfg.Concurrency))

	result, err := analyzer.Analyze(ctx, state.Raw)
	if err != nil {
		return state, err
	}
	s.metrics.RecordAtRisk(ctx, len(result.Risks))
	return state.withTrend(result), nil
}

// resolve turns a selection into file paths. Arguments with a supported
// file extension are paths; anything else is a period label looked up in
// the data directory. An empty selection means every discovered period.
func (s *AnalysisService) resolve(selection []string) ([]string, error) {
	if len(selection) == 0 {
		available, err := s.discovery.FindPeriodFiles()
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(available))
		for _, pf := range available {
			out = append(out, pf.Path)
		}
		return out, nil
	}

	out := make([]string, len(selection))
	var labels []string
	var slots []int
	for i, arg := range selection {
		if validation.IsSupported(filepath.Ext(arg)) {
			out[i] = arg
			continue
		}
		labels = append(labels, arg)
		slots = append(slots, i)
	}
	if len(labels) == 0 {
		return out, nil
	}

	resolved, err := s.discovery.Resolve(labels)
	if err != nil {
		return nil, err
	}
	for j, i := range slots {
		out[i] = resolved[j]
	}
	return out, nil
}

func (s *AnalysisService) ranker() *dataprocessing.Ranker {
	return dataprocessing.NewRanker(s.logger, s.cfg.TopN, s.cfg.BottomN)
}

// begin opens the span for one service call. The returned func ends it and
// records the run metric.
func (s *AnalysisService) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx = infrastructure.EnsureTraceID(ctx)
	attrs = append(attrs,
		attribute.String("operation", operation),
		attribute.String("trace_id", infrastructure.GetTraceID(ctx)))
	ctx, span := s.tracer.Start(ctx, "analysis."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))
	started := time.Now()

	return ctx, func(err error) {
		if err != nil {
			infrastructure.RecordError(ctx, err)
			s.logger.WarnContext(ctx, "analysis failed",
				slog.String("operation", operation),
				slog.String("error", err.Error()))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		s.metrics.RecordRun(ctx, operation, time.Since(started), err)
	}
}

// latestPeriod returns the chronologically last known label, or the last
// label when none is known.
func latestPeriod(labels []string) string {
	ordered := period.Sort(labels)
	for i := len(ordered) - 1; i >= 0; i-- {
		if period.IsKnown(ordered[i]) {
			return ordered[i]
		}
	}
	return ordered[len(ordered)-1]
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
