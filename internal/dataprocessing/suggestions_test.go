package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classpulse/pkg/contracts/domain"
)

func TestSuggestions(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  []string
	}{
		{
			name:  "no category match",
			items: []string{"其他"},
			want:  []string{incentiveSuggestion, parentSuggestion},
		},
		{
			name:  "category order is fixed",
			items: []string{"教室卫生", "手机管理"},
			want: []string{
				categorySuggestions[0].suggestion,
				categorySuggestions[7].suggestion,
				incentiveSuggestion,
				parentSuggestion,
			},
		},
		{
			name:  "more than three deductions adds class meeting",
			items: []string{"两操", "其他1", "其他2", "其他3"},
			want: []string{
				categorySuggestions[3].suggestion,
				classMeetingSuggestion,
				incentiveSuggestion,
				parentSuggestion,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggestions(tt.items))
		})
	}
}

func TestDeductionReports(t *testing.T) {
	items := []string{"手机管理", "两操", "教室卫生", "违规违纪", "发型发饰"}
	observations := []domain.Observation{
		withItems(obs("top", "1月", 100), map[string]interface{}{"手机管理": 1.0}),
		withItems(obs("mid", "1月", 90), map[string]interface{}{"两操": -1.0}),
		withItems(obs("low", "1月", 70), map[string]interface{}{
			"手机管理": -1.0, "两操": -3.0, "教室卫生": -0.5, "违规违纪": -2.0, "发型发饰": nil,
		}),
		withItems(obs("clean", "1月", 80), map[string]interface{}{"手机管理": 0.0}),
	}

	ranking := NewRanker(nil, 1, 2).Rank("1月", observations)
	reports := DeductionReports(ranking, observations, items, 2, 3)
	require.Len(t, reports, 2)

	low := reports[0]
	assert.Equal(t, "low", low.Entity)
	assert.Equal(t, 70.0, low.Score)
	assert.Equal(t, []domain.Deduction{
		{Item: "两操", Score: -3},
		{Item: "违规违纪", Score: -2},
		{Item: "手机管理", Score: -1},
	}, low.Deductions)
	require.Len(t, low.Suggestions, MaxSuggestions)
	assert.Equal(t, categorySuggestions[0].suggestion, low.Suggestions[0])

	clean := reports[1]
	assert.Equal(t, "clean", clean.Entity)
	assert.Empty(t, clean.Deductions)
	assert.NotNil(t, clean.Deductions)
	assert.Empty(t, clean.Suggestions)
}
