package domain

// ColumnQuality is the missing-value profile of one column.
type ColumnQuality struct {
	Column       string  `json:"column"`
	Missing      int     `json:"missing"`
	MissingRatio float64 `json:"missing_ratio"`
	Outliers     int     `json:"outliers"`
	Numeric      bool    `json:"numeric"`
}

// QualityReport summarizes a table before cleaning.
type QualityReport struct {
	Rows          int             `json:"rows"`
	Columns       int             `json:"columns"`
	DuplicateRows int             `json:"duplicate_rows"`
	MissingCells  int             `json:"missing_cells"`
	ColumnDetails []ColumnQuality `json:"column_details"`
}

// ItemStats is the per-period breakdown of one assessment item.
type ItemStats struct {
	Item         string  `json:"item"`
	Total        float64 `json:"total"`
	BonusCount   int     `json:"bonus_count"`
	DeductCount  int     `json:"deduct_count"`
	NonZeroCount int     `json:"non_zero_count"`
}

// ItemPeriodStats is one period's aggregate of a single item.
type ItemPeriodStats struct {
	Period string  `json:"period"`
	Mean   float64 `json:"mean"`
	Sum    float64 `json:"sum"`
	Count  int     `json:"count"`
}

// Deduction is a negative sub-score of one entity.
type Deduction struct {
	Item  string  `json:"item"`
	Score float64 `json:"score"`
}

// DeductionReport lists an underperforming entity's worst deductions and
// the suggestions derived from them.
type DeductionReport struct {
	Entity      string      `json:"entity"`
	Score       float64     `json:"score"`
	Deductions  []Deduction `json:"deductions"`
	Suggestions []string    `json:"suggestions"`
}

// PivotTable is an entity x period matrix of total scores.
type PivotTable struct {
	Periods []string   `json:"periods"`
	Rows    []PivotRow `json:"rows"`
}

// PivotRow is one entity's scores across the pivot periods. Present[i] is
// false when the entity has no row for Periods[i].
type PivotRow struct {
	Entity  string    `json:"entity"`
	Scores  []float64 `json:"scores"`
	Present []bool    `json:"present"`
}
