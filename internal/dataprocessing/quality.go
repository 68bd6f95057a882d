package dataprocessing

import (
	"math"
	"sort"
	"strings"

	"classpulse/pkg/contracts/domain"
)

// outlierFence is the IQR multiplier for outlier fences.
const outlierFence = 1.5

// AssessQuality profiles table before cleaning: duplicate rows, missing
// cells per column and IQR outliers per numeric column.
func AssessQuality(table *domain.Table) domain.QualityReport {
	report := domain.QualityReport{
		Rows:          table.Len(),
		Columns:       len(table.Columns),
		DuplicateRows: table.Len() - len(uniqueRows(table)),
		ColumnDetails: make([]domain.ColumnQuality, 0, len(table.Columns)),
	}

	for _, col := range table.Columns {
		q := domain.ColumnQuality{Column: col}
		var values []float64
		for _, r := range table.Rows {
			cell := r.Get(col)
			if cell.IsEmpty() {
				q.Missing++
				continue
			}
			if cell.Number.Valid {
				values = append(values, cell.Number.Float64)
			}
		}
		if report.Rows > 0 {
			q.MissingRatio = float64(q.Missing) / float64(report.Rows)
		}
		q.Numeric = len(values) > 0
		q.Outliers = countOutliers(values)

		report.MissingCells += q.Missing
		report.ColumnDetails = append(report.ColumnDetails, q)
	}

	return report
}

func countOutliers(values []float64) int {
	if len(values) < 2 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1, q3 := quantile(sorted, 0.25), quantile(sorted, 0.75)
	iqr := q3 - q1
	lower, upper := q1-outlierFence*iqr, q3+outlierFence*iqr

	n := 0
	for _, v := range sorted {
		if v < lower || v > upper {
			n++
		}
	}
	return n
}

// quantile interpolates linearly between the order statistics around
// position (n-1)p of sorted.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// CleanOptions selects the cleaning steps.
type CleanOptions struct {
	DropDuplicates bool
	FillMissing    bool
	// Preserve lists columns FillMissing must leave alone, typically the
	// total score so the trend imputation policy still sees the gap.
	Preserve []string
}

// Clean returns a new table with exact duplicate rows dropped and missing
// cells of numeric columns set to 0. table is not modified.
func Clean(table *domain.Table, opts CleanOptions) *domain.Table {
	out := &domain.Table{Columns: append([]string(nil), table.Columns...)}

	rows := table.Rows
	if opts.DropDuplicates {
		rows = uniqueRows(table)
	}

	var fill []string
	if opts.FillMissing {
		preserved := make(map[string]bool, len(opts.Preserve))
		for _, c := range opts.Preserve {
			preserved[c] = true
		}
		for _, c := range table.Columns {
			if !preserved[c] && isNumericColumn(table, c) {
				fill = append(fill, c)
			}
		}
	}

	out.Rows = make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		values := make(map[string]domain.Cell, len(r.Values)+len(fill))
		for k, v := range r.Values {
			values[k] = v
		}
		for _, c := range fill {
			if values[c].IsEmpty() {
				values[c] = domain.NumberCell(0)
			}
		}
		out.Rows = append(out.Rows, domain.Row{Period: r.Period, Values: values})
	}

	return out
}

// uniqueRows returns the rows of table without exact repeats, first kept.
func uniqueRows(table *domain.Table) []domain.Row {
	seen := make(map[string]bool, table.Len())
	out := make([]domain.Row, 0, table.Len())
	for _, r := range table.Rows {
		key := rowKey(table.Columns, r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func rowKey(columns []string, r domain.Row) string {
	var b strings.Builder
	b.WriteString(r.Period)
	for _, c := range columns {
		b.WriteByte(0x1f)
		b.WriteString(r.Get(c).Text)
	}
	return b.String()
}
