package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"classpulse/internal/config"
	"classpulse/internal/dataprocessing"
	"classpulse/pkg/contracts/domain"
)

// Sheet is one report in tabular form. It becomes a CSV file or a
// workbook sheet.
type Sheet struct {
	Name    string
	Headers []string
	Records [][]string
}

var levelLabels = map[domain.PerformanceLevel]string{
	domain.LevelExcellent:        "优秀",
	domain.LevelGood:             "良好",
	domain.LevelPass:             "合格",
	domain.LevelNeedsImprovement: "需改进",
}

// RiskSheet lists at-risk entities in report order.
func RiskSheet(risks []domain.RiskRecord) Sheet {
	s := Sheet{
		Name:    "风险预警",
		Headers: []string{"班级", "趋势斜率", "总分变化", "月份数", "最近月份"},
		Records: make([][]string, 0, len(risks)),
	}
	for _, r := range risks {
		s.Records = append(s.Records, []string{
			r.Entity,
			formatFloat(r.Slope),
			formatFloat(r.NetChange),
			formatInt(r.PeriodCount),
			r.LatestPeriod,
		})
	}
	return s
}

// SkippedSheet lists the entities left out of trend analysis.
func SkippedSheet(skipped []domain.EntitySkip) Sheet {
	s := Sheet{
		Name:    "未分析班级",
		Headers: []string{"班级", "原因", "说明"},
		Records: make([][]string, 0, len(skipped)),
	}
	for _, sk := range skipped {
		s.Records = append(s.Records, []string{sk.Entity, string(sk.Reason), sk.Detail})
	}
	return s
}

// RankingSheet lists a period ranking.
func RankingSheet(r *dataprocessing.RankingResult) Sheet {
	s := Sheet{
		Name:    "排名" + r.Period,
		Headers: []string{"排名", "班级", "实际班级总分", "等级"},
		Records: make([][]string, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		s.Records = append(s.Records, []string{formatInt(e.Rank), e.Entity, formatFloat(e.Score), levelLabels[e.Level]})
	}
	return s
}

// PivotSheet lists the entity x period total scores. Absent cells are blank.
func PivotSheet(p domain.PivotTable) Sheet {
	headers := []string{"班级"}
	for _, label := range p.Periods {
		headers = append(headers, label+"总分")
	}

	s := Sheet{Name: "班级月度总分", Headers: headers, Records: make([][]string, 0, len(p.Rows))}
	for _, row := range p.Rows {
		record := []string{row.Entity}
		for i, v := range row.Scores {
			if row.Present[i] {
				record = append(record, formatFloat(v))
			} else {
				record = append(record, "")
			}
		}
		s.Records = append(s.Records, record)
	}
	return s
}

// ItemsSheet lists assessment item statistics.
func ItemsSheet(items []domain.ItemStats) Sheet {
	s := Sheet{
		Name:    "考核项目",
		Headers: []string{"考核项目", "加减分总量", "加分次数", "扣分次数", "总次数"},
		Records: make([][]string, 0, len(items)),
	}
	for _, it := range items {
		s.Records = append(s.Records, []string{
			it.Item,
			formatFloat(it.Total),
			formatInt(it.BonusCount),
			formatInt(it.DeductCount),
			formatInt(it.NonZeroCount),
		})
	}
	return s
}

type reportFile struct {
	name  string
	sheet Sheet
}

// Report gathers the results written by Export.
type Report struct {
	Trend   *dataprocessing.TrendResult
	Ranking *dataprocessing.RankingResult
	Pivot   domain.PivotTable
	Items   []domain.ItemStats
}

// ReportExporter writes analysis results as CSV files and one workbook
type ReportExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
	logger    *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "exporter")
	return &ReportExporter{
		csvWriter: NewCSVWriter(paths, logger),
		paths:     paths,
		logger:    logger,
	}
}

// Export writes every available report into dir, or the reports directory
// when dir is empty, and returns the written paths.
func (e *ReportExporter) Export(ctx context.Context, dir string, report Report) ([]string, error) {
	var sheets []Sheet
	var files []reportFile
	add := func(name string, s Sheet) {
		sheets = append(sheets, s)
		if name != "" {
			files = append(files, reportFile{name: name, sheet: s})
		}
	}

	if report.Trend != nil {
		add(config.RiskReportCSV, RiskSheet(report.Trend.Risks))
		add("", SkippedSheet(report.Trend.Skipped))
	}
	if report.Ranking != nil {
		add(config.RankingReportCSV, RankingSheet(report.Ranking))
	}
	if len(report.Pivot.Rows) > 0 {
		add(config.PivotReportCSV, PivotSheet(report.Pivot))
	}
	if len(report.Items) > 0 {
		add(config.ItemsReportCSV, ItemsSheet(report.Items))
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}

	var written []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path, err := e.csvWriter.WriteSimpleCSV(e.target(dir, f.name), f.sheet.Headers, f.sheet.Records)
		if err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	workbook := e.target(dir, config.WorkbookReport)
	if err := WriteWorkbook(workbook, sheets); err != nil {
		return written, err
	}
	written = append(written, workbook)

	e.logger.InfoContext(ctx, "reports exported",
		slog.Int("files", len(written)),
		slog.String("workbook", workbook))
	return written, nil
}

func (e *ReportExporter) target(dir, name string) string {
	if dir != "" {
		return filepath.Join(dir, name)
	}
	if e.paths != nil {
		return e.paths.GetReportPath(name)
	}
	return name
}
