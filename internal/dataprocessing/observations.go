package dataprocessing

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"classpulse/internal/config"
	"classpulse/pkg/contracts/domain"
)

// ItemColumns returns the assessment-item columns of table: every column
// outside the resolved metadata that holds at least one numeric cell.
func ItemColumns(table *domain.Table, cols config.ResolvedColumns) []string {
	var items []string
	for _, c := range table.Columns {
		if cols.IsMetadata(c) {
			continue
		}
		if isNumericColumn(table, c) {
			items = append(items, c)
		}
	}
	return items
}

// Observations maps table rows onto observations. Rows without an entity
// name are dropped; a blank or non-numeric total becomes a missing score.
func Observations(table *domain.Table, cols config.ResolvedColumns) []domain.Observation {
	items := ItemColumns(table, cols)
	out := make([]domain.Observation, 0, table.Len())

	for _, row := range table.Rows {
		entity := strings.TrimSpace(row.Get(cols.Entity).Text)
		if entity == "" {
			continue
		}

		p := row.Period
		if p == "" && cols.Period != "" {
			p = strings.TrimSpace(row.Get(cols.Period).Text)
		}

		obs := domain.Observation{
			Entity: entity,
			Period: p,
			Score:  row.Get(cols.TotalScore).Number,
		}
		if len(items) > 0 {
			obs.SubScores = make(map[string]null.Float64, len(items))
			for _, item := range items {
				obs.SubScores[item] = row.Get(item).Number
			}
		}
		out = append(out, obs)
	}

	return out
}

func isNumericColumn(table *domain.Table, column string) bool {
	for _, r := range table.Rows {
		if r.Get(column).Number.Valid {
			return true
		}
	}
	return false
}
