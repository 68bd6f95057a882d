package http

import (
	"context"

	"classpulse/internal/services"
	"classpulse/pkg/contracts/domain"
)

// AnalysisServiceInterface is the part of services.AnalysisService the
// handlers call.
type AnalysisServiceInterface interface {
	ListPeriods(ctx context.Context) ([]domain.PeriodFile, error)
	RunTrend(ctx context.Context, selection []string) (*services.TrendReport, error)
	RunRanking(ctx context.Context, label string) (*services.RankingReport, error)
	RunItems(ctx context.Context, label string) (*services.ItemsReport, error)
	RunItemTrend(ctx context.Context, selection []string, item string) (*services.ItemTrendReport, error)
	RunQuality(ctx context.Context, label string) (*services.QualityResult, error)
	RunDeductions(ctx context.Context, label string) (*services.DeductionsReport, error)
	RunPivot(ctx context.Context, selection []string) (*services.PivotReport, error)
	Export(ctx context.Context, selection []string, dir string) (*services.ExportResult, error)
}

var _ AnalysisServiceInterface = (*services.AnalysisService)(nil)
