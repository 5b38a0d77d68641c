package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/stocksim/stocksim/sim/optimize"
	"github.com/stocksim/stocksim/sim/trace"
	"github.com/stocksim/stocksim/sim/trend"
)

// searchFlags tune the boundary search shared by analyze and optimize.
type searchFlags struct {
	workers     int
	timeout     time.Duration
	evalDays    int
	viability   string
	trendMethod string
	trendWindow int
	traceLevel  string
	traceOut    string
}

func (f *searchFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.workers, "workers", 0, "Concurrent simulation trials, also the max-order scan step (0 = GOMAXPROCS)")
	fs.DurationVar(&f.timeout, "timeout", 0, "Stop searching after this long and report partial boundaries (0 = no limit)")
	fs.IntVar(&f.evalDays, "eval-days", 0, "Simulation days per trial (0 = use simulation_days)")
	fs.StringVar(&f.viability, "viability", string(trend.CriterionTrend),
		"Viability criterion (trend, rolling-average)")
	fs.StringVar(&f.trendMethod, "trend-method", string(trend.MethodEndpoint),
		"Daily change estimator (endpoint, regression)")
	fs.IntVar(&f.trendWindow, "trend-window", trend.DefaultWindowDays, "Trailing days analyzed for the trend")
	fs.StringVar(&f.traceLevel, "trace-level", string(trace.TraceLevelNone), "Search trace verbosity (none, trials)")
	fs.StringVar(&f.traceOut, "trace-out", "", "Write the search trace as JSON to this file (default: log a summary)")
}

func (f *searchFlags) options() (optimize.Options, error) {
	opts := optimize.Options{
		Workers:        f.workers,
		EvaluationDays: f.evalDays,
		Viability: trend.Evaluator{
			Criterion:  trend.Criterion(f.viability),
			WindowDays: f.trendWindow,
			Method:     trend.Method(f.trendMethod),
		},
	}
	if err := opts.Validate(); err != nil {
		return optimize.Options{}, err
	}
	if f.timeout < 0 {
		return optimize.Options{}, fmt.Errorf("timeout must be >= 0, got %s", f.timeout)
	}
	if !trace.IsValidTraceLevel(f.traceLevel) {
		return optimize.Options{}, fmt.Errorf("unknown trace level %q; valid: none, trials", f.traceLevel)
	}
	if trace.TraceLevel(f.traceLevel) == trace.TraceLevelTrials {
		opts.Trace = trace.NewSearchTrace(trace.TraceConfig{Level: trace.TraceLevelTrials})
	}
	return opts, nil
}

// traceReport is the --trace-out file layout.
type traceReport struct {
	Summary *trace.TraceSummary `json:"summary"`
	Trials  []trace.TrialRecord `json:"trials"`
}

// writeTrace exports st to --trace-out, or logs its summary when no file was given.
func (f *searchFlags) writeTrace(st *trace.SearchTrace) error {
	if !st.Enabled() {
		return nil
	}
	summary := trace.Summarize(st)
	if f.traceOut == "" {
		logrus.Infof("search trace: %d trials (%d viable), max viable consumption %.2f, min viable max order %d",
			summary.TotalTrials, summary.ViableCount, summary.MaxViableConsumption, summary.MinViableMaxOrder)
		return nil
	}
	out, err := os.Create(f.traceOut)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() { _ = out.Close() }()
	if err := writeJSON(out, traceReport{Summary: summary, Trials: st.Trials()}); err != nil {
		return fmt.Errorf("writing trace file: %w", err)
	}
	logrus.Infof("search trace written to %s", f.traceOut)
	return nil
}

// context returns parent bounded by --timeout when one is set.
func (f *searchFlags) context(parent context.Context) (context.Context, context.CancelFunc) {
	if f.timeout > 0 {
		return context.WithTimeout(parent, f.timeout)
	}
	return context.WithCancel(parent)
}
