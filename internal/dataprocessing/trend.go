package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/volatiletech/null/v8"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"classpulse/internal/config"
	apperrors "classpulse/internal/errors"
	"classpulse/internal/period"
	"classpulse/pkg/contracts/domain"
)

// TrendResult is the outcome of one trend run.
type TrendResult struct {
	// Risks holds the entities with a negative slope, by NetChange ascending.
	Risks    []domain.RiskRecord `json:"risks"`
	Skipped  []domain.EntitySkip `json:"skipped"`
	Analyzed int                 `json:"analyzed"`
}

// TrendAnalyzer fits a least-squares line through each entity's scores and
// flags the entities whose scores are falling.
type TrendAnalyzer struct {
	logger      *slog.Logger
	policy      ImputationPolicy
	concurrency int
}

// TrendOption configures a TrendAnalyzer.
type TrendOption func(*TrendAnalyzer)

// WithImputation sets the missing-score policy.
func WithImputation(p ImputationPolicy) TrendOption {
	return func(a *TrendAnalyzer) {
		if p != nil {
			a.policy = p
		}
	}
}

// WithConcurrency fits up to n entities in parallel. Output order does not
// depend on n.
func WithConcurrency(n int) TrendOption {
	return func(a *TrendAnalyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// NewTrendAnalyzer creates an analyzer using zero imputation and serial
// fitting unless overridden.
func NewTrendAnalyzer(logger *slog.Logger, opts ...TrendOption) *TrendAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &TrendAnalyzer{
		logger:      logger.With("component", "trend"),
		policy:      DefaultImputation(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Policy returns the configured imputation policy.
func (a *TrendAnalyzer) Policy() ImputationPolicy {
	return a.policy
}

type fitOutcome struct {
	risk *domain.RiskRecord
	skip *domain.EntitySkip
}

// Analyze runs the trend fit over observations. Entities that cannot be
// fitted are reported in Skipped, never as an error; only context
// cancellation aborts the run.
func (a *TrendAnalyzer) Analyze(ctx context.Context, observations []domain.Observation) (*TrendResult, error) {
	series := groupByEntity(observations)
	outcomes := make([]fitOutcome, len(series))

	if a.concurrency <= 1 {
		for i, s := range series {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = a.fit(s)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.concurrency)
		for i, s := range series {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = a.fit(s)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	result := &TrendResult{
		Risks:   []domain.RiskRecord{},
		Skipped: []domain.EntitySkip{},
	}
	for _, o := range outcomes {
		switch {
		case o.skip != nil:
			result.Skipped = append(result.Skipped, *o.skip)
		case o.risk != nil:
			result.Risks = append(result.Risks, *o.risk)
			result.Analyzed++
		default:
			result.Analyzed++
		}
	}

	sort.SliceStable(result.Risks, func(i, j int) bool {
		return result.Risks[i].NetChange < result.Risks[j].NetChange
	})

	a.logger.InfoContext(ctx, "trend analysis complete",
		slog.Int("entities", len(series)),
		slog.Int("analyzed", result.Analyzed),
		slog.Int("at_risk", len(result.Risks)),
		slog.Int("skipped", len(result.Skipped)),
		slog.String("imputation", a.policy.Name()))

	return result, nil
}

// fit analyzes one entity. It touches no shared state.
func (a *TrendAnalyzer) fit(s domain.EntitySeries) fitOutcome {
	skip := func(reason domain.SkipReason, err error) fitOutcome {
		return fitOutcome{skip: &domain.EntitySkip{Entity: s.Entity, Reason: reason, Detail: err.Error()}}
	}

	if len(s.Observations) < config.MinTrendPeriods {
		return fitOutcome{skip: &domain.EntitySkip{
			Entity: s.Entity,
			Reason: domain.SkipTooFewObservations,
			Detail: fmt.Sprintf("%d observation(s)", len(s.Observations)),
		}}
	}

	ordered, err := sortByPeriod(s.Observations)
	if err != nil {
		a.logger.Warn("entity has an unknown period label, skipped",
			slog.String("entity", s.Entity),
			slog.String("error", err.Error()))
		return skip(domain.SkipUnknownPeriod, err)
	}

	x := make([]float64, len(ordered))
	y := make([]null.Float64, len(ordered))
	for i, o := range ordered {
		x[i] = float64(i)
		y[i] = o.Score
	}

	xs, ys := a.policy.Impute(x, y)
	if len(xs) < config.MinTrendPeriods {
		return fitOutcome{skip: &domain.EntitySkip{
			Entity: s.Entity,
			Reason: domain.SkipTooFewObservations,
			Detail: fmt.Sprintf("%d point(s) after %s imputation", len(xs), a.policy.Name()),
		}}
	}

	slope, err := fitSlope(s.Entity, xs, ys)
	if err != nil {
		a.logger.Warn("trend fit failed, entity skipped",
			slog.String("entity", s.Entity),
			slog.String("error", err.Error()))
		return skip(domain.SkipNumericDegeneracy, err)
	}

	if slope >= 0 {
		return fitOutcome{}
	}
	return fitOutcome{risk: &domain.RiskRecord{
		Entity:       s.Entity,
		Slope:        slope,
		NetChange:    ys[len(ys)-1] - ys[0],
		PeriodCount:  len(ordered),
		LatestPeriod: ordered[len(ordered)-1].Period,
	}}
}

// fitSlope returns the degree-1 least-squares slope of y over x.
func fitSlope(entity string, x, y []float64) (float64, error) {
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, apperrors.NewNumericDegeneracyError(entity, "non-finite score")
		}
	}
	if stat.Variance(x, nil) == 0 {
		return 0, apperrors.NewNumericDegeneracyError(entity, "all points share one time index")
	}

	_, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, apperrors.NewNumericDegeneracyError(entity, "slope is not finite")
	}
	return beta, nil
}

// groupByEntity partitions observations by entity in first-appearance order.
func groupByEntity(observations []domain.Observation) []domain.EntitySeries {
	index := make(map[string]int)
	var out []domain.EntitySeries
	for _, o := range observations {
		i, ok := index[o.Entity]
		if !ok {
			i = len(out)
			index[o.Entity] = i
			out = append(out, domain.EntitySeries{Entity: o.Entity})
		}
		out[i].Observations = append(out[i].Observations, o)
	}
	return out
}

// sortByPeriod orders observations chronologically. Any unknown label
// fails the whole series.
func sortByPeriod(observations []domain.Observation) ([]domain.Observation, error) {
	ranks := make([]int, len(observations))
	for i, o := range observations {
		r, err := period.Rank(o.Period)
		if err != nil {
			return nil, err
		}
		ranks[i] = r
	}

	idx := make([]int, len(observations))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return ranks[idx[i]] < ranks[idx[j]] })

	out := make([]domain.Observation, len(observations))
	for i, k := range idx {
		out[i] = observations[k]
	}
	return out, nil
}
