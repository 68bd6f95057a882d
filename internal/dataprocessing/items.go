package dataprocessing

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"classpulse/internal/period"
	"classpulse/pkg/contracts/domain"
)

// ItemStatistics aggregates every assessment item over observations, in
// items order. Missing sub-scores are ignored.
func ItemStatistics(observations []domain.Observation, items []string) []domain.ItemStats {
	out := make([]domain.ItemStats, 0, len(items))
	for _, item := range items {
		s := domain.ItemStats{Item: item}
		for _, o := range observations {
			v, ok := o.SubScores[item]
			if !ok || !v.Valid {
				continue
			}
			s.Total += v.Float64
			switch {
			case v.Float64 > 0:
				s.BonusCount++
				s.NonZeroCount++
			case v.Float64 < 0:
				s.DeductCount++
				s.NonZeroCount++
			}
		}
		out = append(out, s)
	}
	return out
}

// HighFrequencyDeductions keeps the items deducted at least once, most
// frequently deducted first.
func HighFrequencyDeductions(stats []domain.ItemStats) []domain.ItemStats {
	var out []domain.ItemStats
	for _, s := range stats {
		if s.DeductCount > 0 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DeductCount > out[j].DeductCount })
	return out
}

// ItemTrend returns the mean, sum and count of one item per period, in
// chronological order. Periods where the item was never recorded are left
// out.
func ItemTrend(observations []domain.Observation, item string) []domain.ItemPeriodStats {
	values := make(map[string][]float64)
	var labels []string
	for _, o := range observations {
		v, ok := o.SubScores[item]
		if !ok || !v.Valid {
			continue
		}
		if _, seen := values[o.Period]; !seen {
			labels = append(labels, o.Period)
		}
		values[o.Period] = append(values[o.Period], v.Float64)
	}

	out := make([]domain.ItemPeriodStats, 0, len(labels))
	for _, p := range period.Sort(labels) {
		vs := values[p]
		sum := floats.Sum(vs)
		out = append(out, domain.ItemPeriodStats{
			Period: p,
			Mean:   sum / float64(len(vs)),
			Sum:    sum,
			Count:  len(vs),
		})
	}
	return out
}
