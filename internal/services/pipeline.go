package services

import (
	"time"

	"github.com/google/uuid"

	"classpulse/internal/config"
	"classpulse/internal/dataprocessing"
	"classpulse/pkg/contracts/domain"
)

// PipelineState is the value passed between the stages of one analysis
// run. Stages never modify a state; each with* method returns a copy
// carrying the stage's output. Nothing survives the run.
type PipelineState struct {
	RunID        string                      `json:"run_id"`
	CreatedAt    time.Time                   `json:"created_at"`
	Periods      []string                    `json:"periods"`
	Failures     []domain.FileFailure        `json:"failures"`
	Combined     *domain.Table               `json:"-"`
	Columns      config.ResolvedColumns      `json:"-"`
	Items        []string                    `json:"items,omitempty"`
	Observations []domain.Observation        `json:"-"`
	// Raw holds the observations of the uncleaned table. Trend, item trend
	// and pivot read these; duplicates and blank sub-scores stay as loaded.
	Raw          []domain.Observation        `json:"-"`
	Quality      *domain.QualityReport       `json:"quality,omitempty"`
	Trend        *dataprocessing.TrendResult `json:"trend,omitempty"`
}

func newPipelineState() PipelineState {
	return PipelineState{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Failures:  []domain.FileFailure{},
	}
}

func (s PipelineState) withLoad(res *dataprocessing.LoadResult) PipelineState {
	s.Periods = append([]string(nil), res.Periods...)
	s.Failures = append([]domain.FileFailure{}, res.Failures...)
	s.Combined = res.Table
	return s
}

func (s PipelineState) withQuality(q domain.QualityReport) PipelineState {
	s.Quality = &q
	return s
}

func (s PipelineState) withCleaned(table *domain.Table) PipelineState {
	s.Combined = table
	return s
}

func (s PipelineState) withObservations(cols config.ResolvedColumns, items []string, raw, cleaned []domain.Observation) PipelineState {
	s.Columns = cols
	s.Items = items
	s.Raw = raw
	s.Observations = cleaned
	return s
}

func (s PipelineState) withTrend(t *dataprocessing.TrendResult) PipelineState {
	s.Trend = t
	return s
}

// ObservationsFor returns the observations of one period.
func (s PipelineState) ObservationsFor(label string) []domain.Observation {
	var out []domain.Observation
	for _, o := range s.Observations {
		if o.Period == label {
			out = append(out, o)
		}
	}
	return out
}
