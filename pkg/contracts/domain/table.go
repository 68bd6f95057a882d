package domain

import (
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// Cell is a single raw spreadsheet value. Number is valid only when the
// text parses as a finite number.
type Cell struct {
	Text   string       `json:"text"`
	Number null.Float64 `json:"number"`
}

// NewCell parses raw spreadsheet text into a Cell.
func NewCell(text string) Cell {
	text = strings.TrimSpace(text)
	if text == "" {
		return Cell{}
	}
	cleaned := strings.ReplaceAll(text, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	return Cell{Text: text, Number: null.NewFloat64(v, err == nil && isFinite(v))}
}

// NumberCell builds a Cell holding a numeric value.
func NumberCell(v float64) Cell {
	return Cell{
		Text:   strconv.FormatFloat(v, 'f', -1, 64),
		Number: null.NewFloat64(v, isFinite(v)),
	}
}

// IsEmpty reports whether the cell carries no value at all.
func (c Cell) IsEmpty() bool {
	return c.Text == "" && !c.Number.Valid
}

// Row is one spreadsheet row stamped with the period it was loaded from.
type Row struct {
	Period string          `json:"period"`
	Values map[string]Cell `json:"values"`
}

// Get returns the cell for column, or an empty cell.
func (r Row) Get(column string) Cell {
	if r.Values == nil {
		return Cell{}
	}
	return r.Values[column]
}

// Table is an in-memory tabular dataset. Columns keep first-appearance order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends the column if it is not present yet.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Len returns the row count.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Periods returns the distinct period labels in row order.
func (t *Table) Periods() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		if !seen[r.Period] {
			seen[r.Period] = true
			out = append(out, r.Period)
		}
	}
	return out
}

// FilterPeriod returns a new table holding only the rows of one period.
func (t *Table) FilterPeriod(period string) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		if r.Period == period {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Concat joins tables by column name. Columns absent from a table read as
// missing cells for that table's rows.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			out.AddColumn(c)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}

func isFinite(v float64) bool {
	return v == v && v-v == 0
}
