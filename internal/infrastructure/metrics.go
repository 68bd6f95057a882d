package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics are the instruments recorded by every analysis run.
type PipelineMetrics struct {
	RunsTotal      metric.Int64Counter
	RunDuration    metric.Float64Histogram
	FilesLoaded    metric.Int64Counter
	FileFailures   metric.Int64Counter
	EntitiesAtRisk metric.Int64Gauge
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter(
		"classpulse.pipeline.runs",
		metric.WithDescription("Total number of analysis pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"classpulse.pipeline.duration",
		metric.WithDescription("Analysis pipeline duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	loaded, err := meter.Int64Counter(
		"classpulse.files.loaded",
		metric.WithDescription("Period files loaded successfully"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"classpulse.file.failures",
		metric.WithDescription("Period files that failed to load"),
	)
	if err != nil {
		return nil, err
	}

	atRisk, err := meter.Int64Gauge(
		"classpulse.entities.at_risk",
		metric.WithDescription("Classes flagged at risk by the latest trend run"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:      runs,
		RunDuration:    duration,
		FilesLoaded:    loaded,
		FileFailures:   failures,
		EntitiesAtRisk: atRisk,
	}, nil
}

// RecordRun records one pipeline run of the given operation.
func (m *PipelineMetrics) RecordRun(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordLoad records the outcome of loading a period selection.
func (m *PipelineMetrics) RecordLoad(ctx context.Context, loaded, failed int) {
	if m == nil {
		return
	}
	m.FilesLoaded.Add(ctx, int64(loaded))
	m.FileFailures.Add(ctx, int64(failed))
}

// RecordAtRisk records the size of the latest risk list.
func (m *PipelineMetrics) RecordAtRisk(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.EntitiesAtRisk.Record(ctx, int64(count))
}
