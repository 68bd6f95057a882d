package config

import (
	"fmt"
	"strings"

	apperrors "classpulse/internal/errors"
)

// ColumnMapping maps each canonical field to the column names accepted for
// it, in priority order. Names match exactly after trimming.
type ColumnMapping struct {
	Entity       []string `yaml:"entity" envconfig:"ENTITY"`
	TotalScore   []string `yaml:"total_score" envconfig:"TOTAL_SCORE"`
	ID           []string `yaml:"id" envconfig:"ID"`
	InitialScore []string `yaml:"initial_score" envconfig:"INITIAL_SCORE"`
	Classroom    []string `yaml:"classroom" envconfig:"CLASSROOM"`
	Period       []string `yaml:"period" envconfig:"PERIOD"`
}

// DefaultColumnMapping matches the sheets exported by the scoring office.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Entity:       []string{"班级"},
		TotalScore:   []string{"实际班级总分", "总分"},
		ID:           []string{"编号"},
		InitialScore: []string{"初始分数"},
		Classroom:    []string{"班级教室"},
		Period:       []string{"月份"},
	}
}

// Validate rejects mappings without names for the required fields.
func (m ColumnMapping) Validate() error {
	if len(clean(m.Entity)) == 0 {
		return fmt.Errorf("column mapping: entity needs at least one column name")
	}
	if len(clean(m.TotalScore)) == 0 {
		return fmt.Errorf("column mapping: total_score needs at least one column name")
	}
	return nil
}

// ResolvedColumns holds the concrete column names found in a table.
// Optional fields are empty when absent.
type ResolvedColumns struct {
	Entity       string
	TotalScore   string
	ID           string
	InitialScore string
	Classroom    string
	Period       string
}

// Metadata returns the resolved non-score columns.
func (r ResolvedColumns) Metadata() []string {
	var out []string
	for _, c := range []string{r.Entity, r.TotalScore, r.ID, r.InitialScore, r.Classroom, r.Period} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// IsMetadata reports whether column is one of the resolved columns.
func (r ResolvedColumns) IsMetadata(column string) bool {
	for _, c := range r.Metadata() {
		if c == column {
			return true
		}
	}
	return false
}

// Resolve picks, for each field, the first accepted name present in
// columns. A missing required field yields a MissingColumnError.
func (m ColumnMapping) Resolve(columns []string) (ResolvedColumns, error) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = true
	}
	pick := func(names []string) string {
		for _, n := range clean(names) {
			if present[n] {
				return n
			}
		}
		return ""
	}

	r := ResolvedColumns{
		Entity:       pick(m.Entity),
		TotalScore:   pick(m.TotalScore),
		ID:           pick(m.ID),
		InitialScore: pick(m.InitialScore),
		Classroom:    pick(m.Classroom),
		Period:       pick(m.Period),
	}
	if r.Entity == "" {
		return r, apperrors.NewMissingColumnError("entity", clean(m.Entity))
	}
	if r.TotalScore == "" {
		return r, apperrors.NewMissingColumnError("total_score", clean(m.TotalScore))
	}
	return r, nil
}

func clean(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
