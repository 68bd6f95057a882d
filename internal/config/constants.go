package config

// Application constants
const (
	AppName    = "ClassPulse"
	AppVersion = "1.0.0"

	// MinTrendPeriods is the smallest selection the trend analysis accepts.
	MinTrendPeriods = 2

	// Report file names written under the reports directory
	RiskReportCSV    = "trend_risk.csv"
	RankingReportCSV = "ranking.csv"
	PivotReportCSV   = "class_month_pivot.csv"
	ItemsReportCSV   = "assessment_items.csv"
	WorkbookReport   = "classpulse_report.xlsx"
)
