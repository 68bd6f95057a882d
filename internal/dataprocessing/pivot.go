package dataprocessing

import (
	"sort"

	"classpulse/internal/period"
	"classpulse/pkg/contracts/domain"
)

// Pivot builds the entity x period matrix of total scores. The first
// observed score of an (entity, period) pair wins; periods run in
// chronological order and entities by name.
func Pivot(observations []domain.Observation) domain.PivotTable {
	type key struct{ entity, period string }

	cells := make(map[key]float64)
	entitySet := make(map[string]bool)
	periodSet := make(map[string]bool)
	var periods []string

	for _, o := range observations {
		entitySet[o.Entity] = true
		if !periodSet[o.Period] {
			periodSet[o.Period] = true
			periods = append(periods, o.Period)
		}
		if !o.Score.Valid {
			continue
		}
		k := key{o.Entity, o.Period}
		if _, ok := cells[k]; !ok {
			cells[k] = o.Score.Float64
		}
	}

	entities := make([]string, 0, len(entitySet))
	for e := range entitySet {
		entities = append(entities, e)
	}
	sort.Strings(entities)

	table := domain.PivotTable{Periods: period.Sort(periods), Rows: make([]domain.PivotRow, 0, len(entities))}
	for _, e := range entities {
		row := domain.PivotRow{
			Entity:  e,
			Scores:  make([]float64, len(table.Periods)),
			Present: make([]bool, len(table.Periods)),
		}
		for i, p := range table.Periods {
			if v, ok := cells[key{e, p}]; ok {
				row.Scores[i] = v
				row.Present[i] = true
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
