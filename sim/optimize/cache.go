package optimize

import (
	"context"
	"fmt"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/trace"
	"github.com/stocksim/stocksim/sim/trend"
)

// trialRunner evaluates candidate configs derived from one baseline.
// Trials are pure functions of (consumption, max order), so outcomes are memoized
// for the lifetime of a single Optimize/FindBoundaries call. Safe for concurrent use.
type trialRunner struct {
	base      sim.SimulationConfig
	evaluator trend.Evaluator
	outcomes  *gocache.Cache
	simulated atomic.Int64 // trials that actually ran the engine
	trace     *trace.SearchTrace
}

func newTrialRunner(base sim.SimulationConfig, evaluator trend.Evaluator) *trialRunner {
	return &trialRunner{
		base:      base,
		evaluator: evaluator,
		// no expiration and no janitor goroutine: the cache dies with the call
		outcomes: gocache.New(gocache.NoExpiration, 0),
	}
}

// record counts one engine run and appends it to the trace.
func (r *trialRunner) record(cfg sim.SimulationConfig, res *sim.SimulationResult, viable bool) {
	r.simulated.Add(1)
	r.trace.RecordTrial(trace.TrialRecord{
		DailyConsumption: cfg.DailyConsumption,
		MaxOrderQuantity: cfg.MaxOrderQuantity,
		Viable:           viable,
		Stockouts:        res.Statistics.StockoutsCount,
		FinalStock:       sim.Round(res.Statistics.FinalStock, 2),
	})
}

// remember records a run the caller simulated itself and memoizes its verdict.
func (r *trialRunner) remember(cfg sim.SimulationConfig, res *sim.SimulationResult, viable bool) {
	r.record(cfg, res, viable)
	r.outcomes.Set(outcomeKey(cfg.DailyConsumption, cfg.MaxOrderQuantity), viable, gocache.NoExpiration)
}

// config returns the baseline with the two searched parameters replaced.
func (r *trialRunner) config(consumption float64, maxOrder int) sim.SimulationConfig {
	return r.base.WithDailyConsumption(consumption).WithMaxOrderQuantity(maxOrder)
}

// viable simulates (consumption, maxOrder) and applies the viability criterion.
// It returns ctx.Err() without simulating once the caller's deadline has passed.
func (r *trialRunner) viable(ctx context.Context, consumption float64, maxOrder int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := outcomeKey(consumption, maxOrder)
	if v, ok := r.outcomes.Get(key); ok {
		return v.(bool), nil
	}
	cfg := r.config(consumption, maxOrder)
	res, err := sim.Simulate(cfg)
	if err != nil {
		return false, fmt.Errorf("trial consumption=%g max_order=%d: %w", consumption, maxOrder, err)
	}
	ok := r.evaluator.Viable(res)
	r.record(cfg, res, ok)
	r.outcomes.Set(key, ok, gocache.NoExpiration)
	logrus.Debugf("trial consumption=%.4f max_order=%d viable=%v stockouts=%d", consumption, maxOrder, ok, res.Statistics.StockoutsCount)
	return ok, nil
}

func outcomeKey(consumption float64, maxOrder int) string {
	return fmt.Sprintf("%g/%d", consumption, maxOrder)
}
