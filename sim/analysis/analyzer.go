// Package analysis turns one simulation run into a viability verdict, a trend
// report, stability solutions, metrics and structured risk/advice findings.
package analysis

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/optimize"
	"github.com/stocksim/stocksim/sim/trend"
)

// ViabilityStatus is the closed viability verdict.
type ViabilityStatus string

const (
	Viable    ViabilityStatus = "viable"
	NotViable ViabilityStatus = "not_viable"
)

// Viability is the headline verdict.
type Viability struct {
	IsViable     bool            `json:"is_viable"`
	ServiceLevel float64         `json:"service_level"` // percent of days without stockout
	Status       ViabilityStatus `json:"status"`
}

// Metrics are stock-cover and ordering ratios, rounded to 2 decimals.
type Metrics struct {
	AverageDaysOfStock float64 `json:"average_days_of_stock"`
	AverageOrderSize   float64 `json:"average_order_size"`
	OrderFrequency     float64 `json:"order_frequency"` // orders per week
}

// AnalysisResult is the full analyzer report.
type AnalysisResult struct {
	Viability          Viability                `json:"viability"`
	TrendAnalysis      trend.Analysis           `json:"trend_analysis"`
	StabilitySolutions StabilitySolutions       `json:"stability_solutions"`
	Metrics            Metrics                  `json:"metrics"`
	Risks              []Risk                   `json:"risks"`
	Recommendations    []Advice                 `json:"recommendations"`
	Statistics         sim.SimulationStatistics `json:"statistics"`
}

// Analyze simulates cfg and derives the report. opts drive the stability search
// (workers, evaluation horizon, viability criterion); the trend report uses the
// same window and method.
func Analyze(ctx context.Context, cfg sim.SimulationConfig, opts optimize.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res, err := sim.Simulate(cfg)
	if err != nil {
		return nil, err
	}
	st := res.Statistics
	tr := opts.Viability.Trend(res)

	viable := opts.Viability.Viable(res)
	out := &AnalysisResult{
		Viability: Viability{
			IsViable:     viable,
			ServiceLevel: serviceLevel(len(res.DailyDetails), st.StockoutsCount),
			Status:       NotViable,
		},
		TrendAnalysis: tr,
		Metrics:       computeMetrics(res.Config, st, len(res.DailyDetails)),
		Statistics:    st,
	}
	if viable {
		out.Viability.Status = Viable
	}

	out.StabilitySolutions, err = findStabilitySolutions(ctx, res.Config, viable, opts)
	if err != nil {
		return nil, fmt.Errorf("stability search: %w", err)
	}
	out.Risks, out.Recommendations = deriveFindings(res.Config, st, tr, out.Metrics, out.StabilitySolutions)
	logrus.Infof("analyze: viable=%v trend=%s risks=%d recommendations=%d",
		viable, tr.Trend, len(out.Risks), len(out.Recommendations))
	return out, nil
}

func serviceLevel(days, stockouts int) float64 {
	if days == 0 {
		return 0
	}
	return sim.Round(float64(days-stockouts)/float64(days)*100, 2)
}

func computeMetrics(cfg sim.SimulationConfig, st sim.SimulationStatistics, days int) Metrics {
	m := Metrics{}
	if cfg.DailyConsumption > 0 {
		m.AverageDaysOfStock = sim.Round(st.AverageStock/cfg.DailyConsumption, 2)
	}
	if st.TotalOrders > 0 {
		m.AverageOrderSize = sim.Round(float64(st.TotalOrdered)/float64(st.TotalOrders), 2)
	}
	if days > 0 {
		m.OrderFrequency = sim.Round(float64(st.TotalOrders)/(float64(days)/7), 2)
	}
	return m
}
