package domain

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Observation is one entity's score in one period, mapped out of a Table.
type Observation struct {
	Entity    string                  `json:"entity"`
	Period    string                  `json:"period"`
	Score     null.Float64            `json:"score"`
	SubScores map[string]null.Float64 `json:"sub_scores,omitempty"`
}

// EntitySeries is the chronologically ordered history of one entity.
type EntitySeries struct {
	Entity       string        `json:"entity"`
	Observations []Observation `json:"observations"`
}

// RiskRecord describes an entity whose fitted trend slope is negative.
type RiskRecord struct {
	Entity       string  `json:"entity"`
	Slope        float64 `json:"slope"`
	NetChange    float64 `json:"net_change"`
	PeriodCount  int     `json:"period_count"`
	LatestPeriod string  `json:"latest_period"`
}

// SkipReason explains why an entity is missing from trend output.
type SkipReason string

const (
	SkipTooFewObservations SkipReason = "too_few_observations"
	SkipUnknownPeriod      SkipReason = "unknown_period"
	SkipNumericDegeneracy  SkipReason = "numeric_degeneracy"
)

// EntitySkip records an entity left out of trend analysis.
type EntitySkip struct {
	Entity string     `json:"entity"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// PerformanceLevel is the ranking classification of an entity in one period.
type PerformanceLevel string

const (
	LevelExcellent        PerformanceLevel = "excellent"
	LevelGood             PerformanceLevel = "good"
	LevelPass             PerformanceLevel = "pass"
	LevelNeedsImprovement PerformanceLevel = "needs_improvement"
)

// RankEntry is one row of a period ranking.
type RankEntry struct {
	Entity string           `json:"entity"`
	Score  float64          `json:"score"`
	Rank   int              `json:"rank"`
	Level  PerformanceLevel `json:"level"`
}

// ScoreStats holds descriptive statistics over one period's scores.
type ScoreStats struct {
	Count  int     `json:"count"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// FileFailure records a period file that could not be loaded.
type FileFailure struct {
	Period string `json:"period"`
	Path   string `json:"path"`
	Error  string `json:"error"`
}

// PeriodFile is a discovered period-labeled input file.
type PeriodFile struct {
	Period  string    `json:"period"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}
