package dataprocessing

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classpulse/pkg/contracts/domain"
)

func TestRanker_LevelsAndDenseRanks(t *testing.T) {
	scores := []float64{80, 95, 100, 90, 95, 85, 70, 65, 60, 50, 40, 30, 20}
	observations := make([]domain.Observation, len(scores))
	for i, s := range scores {
		observations[i] = obs(fmt.Sprintf("c%02d", i), "9月", s)
	}

	result := NewRanker(nil, 5, 5).Rank("9月", observations)
	require.Len(t, result.Entries, len(scores))

	want := []struct {
		entity string
		rank   int
		level  domain.PerformanceLevel
	}{
		{"c02", 1, domain.LevelExcellent},
		{"c01", 2, domain.LevelExcellent},
		{"c04", 2, domain.LevelExcellent},
		{"c03", 3, domain.LevelExcellent},
		{"c05", 4, domain.LevelExcellent},
		{"c00", 5, domain.LevelExcellent},
		{"c06", 6, domain.LevelGood},
		{"c07", 7, domain.LevelPass},
		{"c08", 8, domain.LevelNeedsImprovement},
		{"c09", 9, domain.LevelNeedsImprovement},
		{"c10", 10, domain.LevelNeedsImprovement},
		{"c11", 11, domain.LevelNeedsImprovement},
		{"c12", 12, domain.LevelNeedsImprovement},
	}
	for i, w := range want {
		e := result.Entries[i]
		assert.Equal(t, w.entity, e.Entity, "position %d", i)
		assert.Equal(t, w.rank, e.Rank, "rank of %s", e.Entity)
		assert.Equal(t, w.level, e.Level, "level of %s", e.Entity)
	}

	assert.Equal(t, 13, result.Stats.Count)
	assert.Equal(t, 100.0, result.Stats.Max)
	assert.Equal(t, 20.0, result.Stats.Min)
	assert.InDelta(t, 880.0/13, result.Stats.Mean, 1e-9)
}

func TestRanker_ExcellentWinsOverBottom(t *testing.T) {
	result := NewRanker(nil, 5, 5).Rank("1月", []domain.Observation{
		obs("a", "1月", 90), obs("b", "1月", 80), obs("c", "1月", 70),
	})
	for _, e := range result.Entries {
		assert.Equal(t, domain.LevelExcellent, e.Level, e.Entity)
	}
}

func TestRanker_MissingAndDuplicates(t *testing.T) {
	result := NewRanker(nil, 1, 1).Rank("2月", []domain.Observation{
		obs("a", "2月", 30),
		obs("b", "2月"),
		obs("a", "2月", 99),
		obs("c", "2月", 10),
		obs("d", "2月", 20),
	})

	require.Len(t, result.Entries, 4)
	assert.Equal(t, "a", result.Entries[0].Entity)
	assert.Equal(t, 30.0, result.Entries[0].Score, "first row of a duplicate entity wins")

	last := result.Entries[3]
	assert.Equal(t, "b", last.Entity)
	assert.Equal(t, 0.0, last.Score)
	assert.Equal(t, domain.LevelNeedsImprovement, last.Level)

	assert.Equal(t, 15.0, result.Stats.Mean)
	assert.InDelta(t, math.Sqrt(500.0/3), result.Stats.StdDev, 1e-9)
}

func TestRanker_EdgeCases(t *testing.T) {
	empty := NewRanker(nil, 5, 5).Rank("3月", nil)
	assert.Empty(t, empty.Entries)
	assert.Zero(t, empty.Stats.Count)

	single := NewRanker(nil, 5, 5).Rank("3月", []domain.Observation{obs("x", "3月", 88)})
	require.Len(t, single.Entries, 1)
	assert.Zero(t, single.Stats.StdDev)
	assert.Equal(t, 1, single.Entries[0].Rank)
}

func TestRankingResult_TopBottom(t *testing.T) {
	result := NewRanker(nil, 1, 1).Rank("4月", []domain.Observation{
		obs("a", "4月", 1), obs("b", "4月", 3), obs("c", "4月", 2),
	})

	assert.Equal(t, "b", result.Top(1)[0].Entity)
	bottom := result.Bottom(2)
	require.Len(t, bottom, 2)
	assert.Equal(t, "a", bottom[0].Entity)
	assert.Equal(t, "c", bottom[1].Entity)
	assert.Len(t, result.Top(10), 3)
}
