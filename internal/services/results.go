package services

import "classpulse/pkg/contracts/domain"

// TrendReport is the response of RunTrend.
type TrendReport struct {
	RunID      string               `json:"run_id"`
	Periods    []string             `json:"periods"`
	Imputation string               `json:"imputation"`
	Analyzed   int                  `json:"analyzed"`
	Risks      []domain.RiskRecord  `json:"risks"`
	Skipped    []domain.EntitySkip  `json:"skipped"`
	Failures   []domain.FileFailure `json:"failures"`
}

// RankingReport is the response of RunRanking.
type RankingReport struct {
	RunID   string             `json:"run_id"`
	Period  string             `json:"period"`
	Stats   domain.ScoreStats  `json:"stats"`
	Entries []domain.RankEntry `json:"entries"`
	Top     []domain.RankEntry `json:"top"`
	Bottom  []domain.RankEntry `json:"bottom"`
}

// ItemsReport is the response of RunItems.
type ItemsReport struct {
	RunID         string             `json:"run_id"`
	Period        string             `json:"period"`
	Items         []domain.ItemStats `json:"items"`
	HighFrequency []domain.ItemStats `json:"high_frequency_deductions"`
}

// ItemTrendReport is the response of RunItemTrend.
type ItemTrendReport struct {
	RunID    string                   `json:"run_id"`
	Item     string                   `json:"item"`
	Periods  []domain.ItemPeriodStats `json:"periods"`
	Failures []domain.FileFailure     `json:"failures"`
}

// QualityResult is the response of RunQuality.
type QualityResult struct {
	RunID  string               `json:"run_id"`
	Period string               `json:"period"`
	Report domain.QualityReport `json:"report"`
}

// DeductionsReport is the response of RunDeductions.
type DeductionsReport struct {
	RunID   string                   `json:"run_id"`
	Period  string                   `json:"period"`
	Reports []domain.DeductionReport `json:"reports"`
}

// PivotReport is the response of RunPivot.
type PivotReport struct {
	RunID    string               `json:"run_id"`
	Pivot    domain.PivotTable    `json:"pivot"`
	Failures []domain.FileFailure `json:"failures"`
}

// ExportResult lists the files written by Export.
type ExportResult struct {
	RunID   string   `json:"run_id"`
	Periods []string `json:"periods"`
	Files   []string `json:"files"`
}
