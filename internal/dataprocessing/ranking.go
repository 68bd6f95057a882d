package dataprocessing

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"classpulse/pkg/contracts/domain"
)

// RankingResult is the ranked table of one period.
type RankingResult struct {
	Period  string             `json:"period"`
	Stats   domain.ScoreStats  `json:"stats"`
	Entries []domain.RankEntry `json:"entries"`
}

// Top returns the first n entries of the ranked order.
func (r *RankingResult) Top(n int) []domain.RankEntry {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	return r.Entries[:n]
}

// Bottom returns the last n entries, lowest score first.
func (r *RankingResult) Bottom(n int) []domain.RankEntry {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	out := make([]domain.RankEntry, 0, n)
	for i := len(r.Entries) - 1; i >= len(r.Entries)-n; i-- {
		out = append(out, r.Entries[i])
	}
	return out
}

// Ranker ranks one period's entities by total score.
type Ranker struct {
	logger  *slog.Logger
	topN    int
	bottomN int
}

// NewRanker creates a Ranker. Non-positive sizes fall back to 5.
func NewRanker(logger *slog.Logger, topN, bottomN int) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	if topN <= 0 {
		topN = 5
	}
	if bottomN <= 0 {
		bottomN = 5
	}
	return &Ranker{logger: logger.With("component", "ranking"), topN: topN, bottomN: bottomN}
}

// Rank computes statistics, dense ranks and levels. Missing scores count
// as 0 and a repeated entity keeps its first row.
func (r *Ranker) Rank(periodLabel string, observations []domain.Observation) *RankingResult {
	entries := make([]domain.RankEntry, 0, len(observations))
	seen := make(map[string]bool, len(observations))
	for _, o := range observations {
		if seen[o.Entity] {
			r.logger.Debug("duplicate entity in period, keeping first row",
				slog.String("period", periodLabel),
				slog.String("entity", o.Entity))
			continue
		}
		seen[o.Entity] = true

		score := 0.0
		if o.Score.Valid && !math.IsNaN(o.Score.Float64) && !math.IsInf(o.Score.Float64, 0) {
			score = o.Score.Float64
		}
		entries = append(entries, domain.RankEntry{Entity: o.Entity, Score: score})
	}

	result := &RankingResult{Period: periodLabel, Entries: entries}
	if len(entries) == 0 {
		return result
	}

	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = e.Score
	}
	result.Stats = describe(scores)

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })

	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}

	bottomStart := len(entries) - r.bottomN
	for i := range entries {
		switch {
		case entries[i].Rank <= r.topN:
			entries[i].Level = domain.LevelExcellent
		case i >= bottomStart:
			entries[i].Level = domain.LevelNeedsImprovement
		case entries[i].Score > result.Stats.Mean:
			entries[i].Level = domain.LevelGood
		default:
			entries[i].Level = domain.LevelPass
		}
	}

	r.logger.Debug("period ranked",
		slog.String("period", periodLabel),
		slog.Int("entities", len(entries)),
		slog.Float64("mean", result.Stats.Mean))

	return result
}

// describe computes max, min, mean and sample standard deviation.
func describe(values []float64) domain.ScoreStats {
	s := domain.ScoreStats{Count: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Max, s.Min = values[0], values[0]
	for _, v := range values[1:] {
		s.Max = math.Max(s.Max, v)
		s.Min = math.Min(s.Min, v)
	}
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
