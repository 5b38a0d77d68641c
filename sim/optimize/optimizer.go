// Package optimize searches the (daily_consumption, max_order_quantity) plane for
// viability boundaries and a recommended configuration. Every trial is a full
// deterministic simulation; trials fan out over an errgroup.
package optimize

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/trace"
	"github.com/stocksim/stocksim/sim/trend"
)

// Options tunes a search. The zero value is valid.
type Options struct {
	// Workers caps concurrent trials and sets how many max-order candidates are
	// simulated per scan step. <= 0 selects GOMAXPROCS. Results do not depend on it;
	// TotalTrials may, since a scan step runs whole.
	Workers int
	// EvaluationDays overrides simulation_days for every trial. 0 keeps the config horizon.
	EvaluationDays int
	// Viability is the criterion a trial must pass.
	Viability trend.Evaluator
	// Trace, when enabled, receives every simulated trial.
	Trace *trace.SearchTrace
}

// Validate checks option values.
func (o Options) Validate() error {
	if o.EvaluationDays < 0 {
		return fmt.Errorf("evaluation days must be >= 0, got %d", o.EvaluationDays)
	}
	if o.Viability.WindowDays < 0 {
		return fmt.Errorf("trend window must be >= 0, got %d", o.Viability.WindowDays)
	}
	if !trend.IsValidCriterion(string(o.Viability.Criterion)) {
		return fmt.Errorf("unknown viability criterion %q", o.Viability.Criterion)
	}
	if !trend.IsValidMethod(string(o.Viability.Method)) {
		return fmt.Errorf("unknown trend method %q", o.Viability.Method)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Boundaries are the two viability frontiers through the current configuration.
// A nil pointer means the search range held no viable value.
type Boundaries struct {
	MaxViableConsumption *float64
	MinRequiredMaxOrder  *int
	Consumption          AxisReport
	MaxOrder             AxisReport
	Truncated            bool
}

// CurrentStatus describes the configuration as given.
type CurrentStatus struct {
	IsViable                  bool            `json:"is_viable"`
	DailyConsumption          float64         `json:"daily_consumption"`
	MaxOrderQuantity          int             `json:"max_order_quantity"`
	FinalStock                float64         `json:"final_stock"`
	AverageStock              float64         `json:"average_stock"`
	MinStock                  float64         `json:"min_stock"`
	Stockouts                 int             `json:"stockouts"`
	Trend                     trend.Direction `json:"trend"`
	ReorderThreshold          float64         `json:"reorder_threshold"`
	DaysAboveThreshold        int             `json:"days_above_threshold"`
	DaysAboveThresholdPercent float64         `json:"days_above_threshold_percent"`
}

// EquilibriumAnalysis places the current values against the boundaries.
// Rates are nil when the matching boundary was not found.
type EquilibriumAnalysis struct {
	MaxViableConsumption       *float64 `json:"max_viable_consumption"`
	MinRequiredMaxOrder        *int     `json:"min_required_max_order"`
	ConsumptionUtilizationRate *float64 `json:"consumption_utilization_rate"` // current / max viable, percent
	OrderCapacityRate          *float64 `json:"order_capacity_rate"`          // min required / current, percent
}

// Improvement compares the optimal configuration with the current one.
type Improvement struct {
	ConsumptionIncrease        float64 `json:"consumption_increase"`
	ConsumptionIncreasePercent float64 `json:"consumption_increase_percent"`
	OrderAdjustment            int     `json:"order_adjustment"`
	OrderAdjustmentPercent     float64 `json:"order_adjustment_percent"`
}

// OptimalConfiguration is the best (consumption, max order) pair found, re-simulated.
// Config is the full configuration, ready to feed back into sim.Simulate.
type OptimalConfiguration struct {
	IsOptimal            bool                 `json:"is_optimal"`
	DailyConsumption     float64              `json:"daily_consumption"`
	MaxOrderQuantity     int                  `json:"max_order_quantity"`
	FinalStock           float64              `json:"final_stock"`
	Stockouts            int                  `json:"stockouts"`
	Trend                trend.Direction      `json:"trend"`
	ImprovementVsCurrent Improvement          `json:"improvement_vs_current"`
	Config               sim.SimulationConfig `json:"config"`
}

// TestedScenarios summarizes both boundary searches.
type TestedScenarios struct {
	ConsumptionTests   AxisReport `json:"consumption_tests"`
	OrderQuantityTests AxisReport `json:"order_quantity_tests"`
}

// OptimizationResult is the full optimizer report.
type OptimizationResult struct {
	CurrentStatus        CurrentStatus         `json:"current_status"`
	EquilibriumAnalysis  EquilibriumAnalysis   `json:"equilibrium_analysis"`
	OptimalConfiguration *OptimalConfiguration `json:"optimal_configuration"`
	Recommendations      []Recommendation      `json:"recommendations"`
	TestedScenarios      TestedScenarios       `json:"tested_scenarios"`
	Truncated            bool                  `json:"truncated"`
	TotalTrials          int                   `json:"total_trials"` // engine runs, memo hits excluded
}

// prepare validates cfg and opts and returns the trial baseline.
func prepare(cfg sim.SimulationConfig, opts Options) (sim.SimulationConfig, error) {
	if err := opts.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid options: %w", err)
	}
	if opts.EvaluationDays > 0 {
		cfg = cfg.WithSimulationDays(opts.EvaluationDays)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg.Normalized(), nil
}

// FindBoundaries runs the consumption bisection and the max-order search concurrently.
// Cancelling ctx stops new trials; the result is then marked Truncated and holds the
// best values found so far.
func FindBoundaries(ctx context.Context, cfg sim.SimulationConfig, opts Options) (*Boundaries, error) {
	base, err := prepare(cfg, opts)
	if err != nil {
		return nil, err
	}
	r := newTrialRunner(base, opts.Viability)
	r.trace = opts.Trace
	// both axes start from the current config; run it once before they fan out
	if _, err := r.viable(ctx, base.DailyConsumption, base.MaxOrderQuantity); err != nil && !isContextErr(err) {
		return nil, err
	}
	return findBoundaries(ctx, r, opts.workers())
}

func findBoundaries(ctx context.Context, r *trialRunner, workers int) (*Boundaries, error) {
	b := &Boundaries{}
	g := new(errgroup.Group)
	g.SetLimit(max(workers, 1))
	g.Go(func() error {
		var err error
		b.MaxViableConsumption, b.Consumption, err = maxViableConsumption(ctx, r, r.base.MaxOrderQuantity)
		return err
	})
	g.Go(func() error {
		var err error
		b.MinRequiredMaxOrder, b.MaxOrder, err = minRequiredMaxOrder(ctx, r, workers)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	b.Truncated = b.Consumption.Truncated || b.MaxOrder.Truncated
	return b, nil
}

// candidate is one max-order value with its own consumption bisection.
type candidate struct {
	maxOrder    int
	consumption *float64
	truncated   bool
}

// Optimize evaluates the current configuration, finds both boundaries, searches the
// best viable pair and derives recommendations.
func Optimize(ctx context.Context, cfg sim.SimulationConfig, opts Options) (*OptimizationResult, error) {
	base, err := prepare(cfg, opts)
	if err != nil {
		return nil, err
	}
	r := newTrialRunner(base, opts.Viability)
	r.trace = opts.Trace
	workers := opts.workers()
	logrus.Infof("optimize: consumption=%.2f max_order=%d horizon=%d workers=%d",
		base.DailyConsumption, base.MaxOrderQuantity, base.SimulationDays, workers)

	current, err := sim.Simulate(base)
	if err != nil {
		return nil, fmt.Errorf("simulate current config: %w", err)
	}
	r.remember(base, current, opts.Viability.Viable(current))

	bounds, err := findBoundaries(ctx, r, workers)
	if err != nil {
		return nil, err
	}

	optimal, truncated, err := optimalConfiguration(ctx, r, bounds, workers)
	if err != nil {
		return nil, err
	}

	res := &OptimizationResult{
		CurrentStatus:        currentStatus(base, current, opts.Viability),
		EquilibriumAnalysis:  equilibrium(base, bounds),
		OptimalConfiguration: optimal,
		TestedScenarios:      TestedScenarios{ConsumptionTests: bounds.Consumption, OrderQuantityTests: bounds.MaxOrder},
		Truncated:            bounds.Truncated || truncated,
	}
	res.Recommendations = generateRecommendations(base, res.CurrentStatus.IsViable, bounds, optimal)
	res.TotalTrials = int(r.simulated.Load())
	if res.Truncated {
		logrus.Warnf("optimize: search stopped early after %d trials: %v", res.TotalTrials, ctx.Err())
	}
	logrus.Infof("optimize: done, %d trials", res.TotalTrials)
	return res, nil
}

// optimalConfiguration bisects consumption for each candidate max order in parallel
// and re-simulates the winner. Returns nil when no candidate has a viable consumption.
func optimalConfiguration(ctx context.Context, r *trialRunner, b *Boundaries, workers int) (*OptimalConfiguration, bool, error) {
	current := r.base.MaxOrderQuantity
	var orders []int
	if b.MinRequiredMaxOrder != nil {
		orders = append(orders, *b.MinRequiredMaxOrder)
	}
	if b.MinRequiredMaxOrder == nil || current >= *b.MinRequiredMaxOrder {
		if len(orders) == 0 || orders[0] != current {
			orders = append(orders, current)
		}
	}

	candidates := make([]candidate, len(orders))
	g := new(errgroup.Group)
	g.SetLimit(max(workers, 1))
	for i, mo := range orders {
		i, mo := i, mo
		g.Go(func() error {
			c, report, err := maxViableConsumption(ctx, r, mo)
			candidates[i] = candidate{maxOrder: mo, consumption: c, truncated: report.Truncated}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	truncated := false
	var best *candidate
	for i := range candidates {
		c := &candidates[i]
		truncated = truncated || c.truncated
		if c.consumption == nil {
			continue
		}
		if best == nil || *c.consumption > *best.consumption ||
			(*c.consumption == *best.consumption && c.maxOrder < best.maxOrder) {
			best = c
		}
	}
	if best == nil {
		return nil, truncated, nil
	}

	cfg := r.config(*best.consumption, best.maxOrder)
	res, err := sim.Simulate(cfg)
	if err != nil {
		return nil, truncated, fmt.Errorf("simulate optimal config: %w", err)
	}
	viable := r.evaluator.Viable(res)
	r.record(cfg, res, viable)

	base := r.base
	opt := &OptimalConfiguration{
		DailyConsumption: *best.consumption,
		MaxOrderQuantity: best.maxOrder,
		FinalStock:       sim.Round(res.Statistics.FinalStock, 2),
		Stockouts:        res.Statistics.StockoutsCount,
		Trend:            r.evaluator.Trend(res).Trend,
		Config:           cfg,
		ImprovementVsCurrent: Improvement{
			ConsumptionIncrease:        sim.Round(*best.consumption-base.DailyConsumption, 2),
			ConsumptionIncreasePercent: sim.Round((*best.consumption-base.DailyConsumption)/base.DailyConsumption*100, 2),
			OrderAdjustment:            best.maxOrder - base.MaxOrderQuantity,
			OrderAdjustmentPercent:     sim.Round(float64(best.maxOrder-base.MaxOrderQuantity)/float64(base.MaxOrderQuantity)*100, 2),
		},
	}
	opt.IsOptimal = opt.Stockouts == 0 && viable
	return opt, truncated, nil
}

func currentStatus(cfg sim.SimulationConfig, res *sim.SimulationResult, ev trend.Evaluator) CurrentStatus {
	st := res.Statistics
	above := 0
	for _, d := range res.DailyDetails {
		if d.StockEnd >= cfg.ReorderThreshold {
			above++
		}
	}
	s := CurrentStatus{
		IsViable:           ev.Viable(res),
		DailyConsumption:   cfg.DailyConsumption,
		MaxOrderQuantity:   cfg.MaxOrderQuantity,
		FinalStock:         sim.Round(st.FinalStock, 2),
		AverageStock:       sim.Round(st.AverageStock, 2),
		MinStock:           sim.Round(st.MinStock, 2),
		Stockouts:          st.StockoutsCount,
		Trend:              ev.Trend(res).Trend,
		ReorderThreshold:   cfg.ReorderThreshold,
		DaysAboveThreshold: above,
	}
	if n := len(res.DailyDetails); n > 0 {
		s.DaysAboveThresholdPercent = sim.Round(float64(above)/float64(n)*100, 2)
	}
	return s
}

func equilibrium(cfg sim.SimulationConfig, b *Boundaries) EquilibriumAnalysis {
	e := EquilibriumAnalysis{
		MaxViableConsumption: b.MaxViableConsumption,
		MinRequiredMaxOrder:  b.MinRequiredMaxOrder,
	}
	if b.MaxViableConsumption != nil && *b.MaxViableConsumption > 0 {
		rate := sim.Round(cfg.DailyConsumption / *b.MaxViableConsumption * 100, 2)
		e.ConsumptionUtilizationRate = &rate
	}
	if b.MinRequiredMaxOrder != nil && cfg.MaxOrderQuantity > 0 {
		rate := sim.Round(float64(*b.MinRequiredMaxOrder)/float64(cfg.MaxOrderQuantity)*100, 2)
		e.OrderCapacityRate = &rate
	}
	return e
}

// sortRecommendations orders by priority rank; equal ranks keep insertion order.
func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return PriorityRank(recs[i].Priority) < PriorityRank(recs[j].Priority)
	})
}
