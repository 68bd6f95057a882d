package dataprocessing

import (
	"github.com/volatiletech/null/v8"
)

// ImputationPolicy decides what a missing score contributes to a trend fit.
// It receives the time index and scores of one entity and returns the
// points to fit. The index of a kept point never changes.
type ImputationPolicy interface {
	Name() string
	Impute(x []float64, y []null.Float64) ([]float64, []float64)
}

// ZeroImputation treats a missing score as 0. It is the default policy, so
// an unreported month pulls a class's trend down.
type ZeroImputation struct{}

// Name returns "zero".
func (ZeroImputation) Name() string { return "zero" }

// Impute substitutes 0 for every missing score.
func (ZeroImputation) Impute(x []float64, y []null.Float64) ([]float64, []float64) {
	xs := append([]float64(nil), x...)
	ys := make([]float64, len(y))
	for i, v := range y {
		if v.Valid {
			ys[i] = v.Float64
		}
	}
	return xs, ys
}

// DropMissing leaves missing scores out of the fit.
type DropMissing struct{}

// Name returns "drop".
func (DropMissing) Name() string { return "drop" }

// Impute keeps only the observed points.
func (DropMissing) Impute(x []float64, y []null.Float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i, v := range y {
		if v.Valid {
			xs = append(xs, x[i])
			ys = append(ys, v.Float64)
		}
	}
	return xs, ys
}

// DefaultImputation is the policy used when none is configured.
func DefaultImputation() ImputationPolicy {
	return ZeroImputation{}
}

// ImputationByName maps a config value onto a policy. Unknown names fall
// back to the default.
func ImputationByName(name string) ImputationPolicy {
	switch name {
	case "drop":
		return DropMissing{}
	default:
		return DefaultImputation()
	}
}
