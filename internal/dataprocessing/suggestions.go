package dataprocessing

import (
	"sort"

	"classpulse/pkg/contracts/domain"
)

// MaxSuggestions is how many suggestions a deduction report carries.
const MaxSuggestions = 3

// categorySuggestions maps assessment items onto improvement advice, in
// the order the advice is given.
var categorySuggestions = []struct {
	item       string
	suggestion string
}{
	{"手机管理", "加强手机管理教育，制定明确的手机使用规定，严格执行课堂手机收纳制度"},
	{"发型发饰", "加强学生仪容仪表教育，明确发型发饰规范要求，定期检查"},
	{"校服衣着", "强化校服穿着规范，建立每日检查制度，对不符合要求的学生及时纠正"},
	{"两操", "提高早操和课间操质量，安排专人负责监督，定期开展评比活动"},
	{"违规违纪", "加强纪律教育，明确校规校纪，建立违纪行为记录和改进跟踪机制"},
	{"男生寝室卫生", "加强男生寝室卫生管理，制定卫生标准，定期检查评比，建立奖惩机制"},
	{"女生寝室卫生", "加强女生寝室卫生管理，制定卫生标准，定期检查评比，建立奖惩机制"},
	{"教室卫生", "建立教室卫生责任制，安排值日表，定期检查，保持教室环境整洁"},
	{"教室规范", "加强教室规范管理，包括桌椅摆放、墙面装饰、学习氛围等，创造良好学习环境"},
	{"班主任考勤", "班主任应加强考勤管理，确保按时到岗，做好班级日常管理工作"},
}

const (
	classMeetingSuggestion = "建议召开班级专题会议，全面分析问题，制定整体改进计划"
	incentiveSuggestion    = "建立班级内部激励机制，鼓励学生自觉遵守各项规定"
	parentSuggestion       = "加强与家长的沟通合作，共同促进学生全面发展"
)

// Suggestions returns improvement advice for the deducted items. More than
// three deducted items adds a class-meeting suggestion; two general
// suggestions always close the list.
func Suggestions(items []string) []string {
	deducted := make(map[string]bool, len(items))
	for _, it := range items {
		deducted[it] = true
	}

	var out []string
	for _, c := range categorySuggestions {
		if deducted[c.item] {
			out = append(out, c.suggestion)
		}
	}
	if len(items) > 3 {
		out = append(out, classMeetingSuggestion)
	}
	return append(out, incentiveSuggestion, parentSuggestion)
}

// Deductions lists the negative sub-scores of o, largest deduction first.
func Deductions(o domain.Observation, items []string) []domain.Deduction {
	var out []domain.Deduction
	for _, item := range items {
		v, ok := o.SubScores[item]
		if ok && v.Valid && v.Float64 < 0 {
			out = append(out, domain.Deduction{Item: item, Score: v.Float64})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// DeductionReports analyzes the bottomN entities of a ranking. Each report
// shows at most maxDeductions deductions and MaxSuggestions suggestions.
func DeductionReports(ranking *RankingResult, observations []domain.Observation, items []string, bottomN, maxDeductions int) []domain.DeductionReport {
	byEntity := make(map[string]domain.Observation, len(observations))
	for _, o := range observations {
		if _, ok := byEntity[o.Entity]; !ok {
			byEntity[o.Entity] = o
		}
	}

	bottom := ranking.Bottom(bottomN)
	out := make([]domain.DeductionReport, 0, len(bottom))
	for _, entry := range bottom {
		deductions := Deductions(byEntity[entry.Entity], items)

		names := make([]string, len(deductions))
		for i, d := range deductions {
			names[i] = d.Item
		}

		report := domain.DeductionReport{
			Entity:      entry.Entity,
			Score:       entry.Score,
			Deductions:  deductions,
			Suggestions: []string{},
		}
		if len(report.Deductions) > maxDeductions {
			report.Deductions = report.Deductions[:maxDeductions]
		}
		if len(deductions) > 0 {
			s := Suggestions(names)
			if len(s) > MaxSuggestions {
				s = s[:MaxSuggestions]
			}
			report.Suggestions = s
		}
		if report.Deductions == nil {
			report.Deductions = []domain.Deduction{}
		}
		out = append(out, report)
	}
	return out
}
