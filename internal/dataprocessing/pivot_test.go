package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"classpulse/pkg/contracts/domain"
)

func score(entity, label string, v null.Float64) domain.Observation {
	return domain.Observation{Entity: entity, Period: label, Score: v}
}

func TestPivot(t *testing.T) {
	table := Pivot([]domain.Observation{
		score("高一2班", "4月", null.Float64From(85)),
		score("高一1班", "4月", null.Float64From(90)),
		score("高一1班", "3月", null.Float64From(95)),
		score("高一1班", "3月", null.Float64From(70)),
		score("高一2班", "3月", null.Float64{}),
	})

	assert.Equal(t, []string{"3月", "4月"}, table.Periods, "periods run chronologically")
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, "高一1班", first.Entity)
	assert.Equal(t, []float64{95, 90}, first.Scores, "the first score of a repeated pair wins")
	assert.Equal(t, []bool{true, true}, first.Present)

	second := table.Rows[1]
	assert.Equal(t, "高一2班", second.Entity)
	assert.Equal(t, []float64{0, 85}, second.Scores)
	assert.Equal(t, []bool{false, true}, second.Present, "a blank score leaves the cell absent")
}

func TestPivot_MissingPeriodForEntity(t *testing.T) {
	table := Pivot([]domain.Observation{
		score("A班", "9月", null.Float64From(80)),
		score("B班", "10月", null.Float64From(88)),
		score("A班", "10月", null.Float64From(82)),
	})

	assert.Equal(t, []string{"9月", "10月"}, table.Periods)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []bool{true, true}, table.Rows[0].Present)
	assert.Equal(t, []bool{false, true}, table.Rows[1].Present)
	assert.Equal(t, 88.0, table.Rows[1].Scores[1])
}

func TestPivot_Empty(t *testing.T) {
	table := Pivot(nil)
	assert.Empty(t, table.Periods)
	assert.Empty(t, table.Rows)
}
