package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"classpulse/pkg/contracts/domain"
)

func withItems(o domain.Observation, items map[string]interface{}) domain.Observation {
	o.SubScores = make(map[string]null.Float64, len(items))
	for k, v := range items {
		if f, ok := v.(float64); ok {
			o.SubScores[k] = null.Float64From(f)
		} else {
			o.SubScores[k] = null.Float64{}
		}
	}
	return o
}

func TestItemStatistics(t *testing.T) {
	observations := []domain.Observation{
		withItems(obs("A", "1月", 90), map[string]interface{}{"手机管理": -2.0, "两操": 1.0}),
		withItems(obs("B", "1月", 92), map[string]interface{}{"手机管理": -1.0, "两操": 0.0}),
		withItems(obs("C", "1月", 99), map[string]interface{}{"手机管理": nil, "两操": -0.5}),
	}

	stats := ItemStatistics(observations, []string{"手机管理", "两操", "教室卫生"})
	require.Len(t, stats, 3)

	assert.Equal(t, domain.ItemStats{Item: "手机管理", Total: -3, DeductCount: 2, NonZeroCount: 2}, stats[0])
	assert.Equal(t, domain.ItemStats{Item: "两操", Total: 0.5, BonusCount: 1, DeductCount: 1, NonZeroCount: 2}, stats[1])
	assert.Equal(t, domain.ItemStats{Item: "教室卫生"}, stats[2])

	frequent := HighFrequencyDeductions(stats)
	require.Len(t, frequent, 2)
	assert.Equal(t, "手机管理", frequent[0].Item)
	assert.Equal(t, "两操", frequent[1].Item)
}

func TestItemTrend(t *testing.T) {
	observations := []domain.Observation{
		withItems(obs("A", "10月", 0), map[string]interface{}{"两操": -1.0}),
		withItems(obs("A", "9月", 0), map[string]interface{}{"两操": -3.0}),
		withItems(obs("B", "9月", 0), map[string]interface{}{"两操": 1.0}),
		withItems(obs("B", "10月", 0), map[string]interface{}{"两操": nil}),
		withItems(obs("C", "11月", 0), map[string]interface{}{"手机管理": -1.0}),
	}

	trend := ItemTrend(observations, "两操")
	require.Len(t, trend, 2)
	assert.Equal(t, domain.ItemPeriodStats{Period: "9月", Mean: -1, Sum: -2, Count: 2}, trend[0])
	assert.Equal(t, domain.ItemPeriodStats{Period: "10月", Mean: -1, Sum: -1, Count: 1}, trend[1])

	assert.Empty(t, ItemTrend(observations, "不存在"))
}

func TestPivot_Items(t *testing.T) {
	observations := []domain.Observation{
		obs("高一2班", "10月", 88),
		obs("高一1班", "9月", 90),
		obs("高一1班", "10月", 91),
		obs("高一1班", "10月", 50),
		obs("高一2班", "9月"),
	}

	p := Pivot(observations)
	assert.Equal(t, []string{"9月", "10月"}, p.Periods)
	require.Len(t, p.Rows, 2)

	assert.Equal(t, domain.PivotRow{Entity: "高一1班", Scores: []float64{90, 91}, Present: []bool{true, true}}, p.Rows[0])
	assert.Equal(t, domain.PivotRow{Entity: "高一2班", Scores: []float64{0, 88}, Present: []bool{false, true}}, p.Rows[1])
}
