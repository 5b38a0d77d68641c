// Package trend classifies the trailing stock trajectory of a simulation and
// decides whether a run is viable. It has no dependency on the optimizer or the
// analyzer, so both can share one definition of viability.
package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/stocksim/stocksim/sim"
)

// Direction is the closed set of trend classifications.
type Direction string

const (
	Descending Direction = "descending"
	Stable     Direction = "stable"
	Ascending  Direction = "ascending"
	Unknown    Direction = "unknown" // empty ledger
)

// Method selects how the daily change is estimated over the window.
type Method string

const (
	// MethodEndpoint divides (last stock_end - first stock_start) by the window length.
	MethodEndpoint Method = "endpoint"
	// MethodRegression uses the least-squares slope of stock_end over the window.
	MethodRegression Method = "regression"
)

var validMethods = map[Method]bool{"": true, MethodEndpoint: true, MethodRegression: true}

// IsValidMethod returns true if name is a recognized trend method.
func IsValidMethod(name string) bool { return validMethods[Method(name)] }

const (
	// DefaultWindowDays is the trailing window analyzed when none is given.
	DefaultWindowDays = 30
	// DescendingSlope: a daily change below this is a continuous decline.
	DescendingSlope = -0.1
	// AscendingSlope: a daily change above this is a significant build-up.
	AscendingSlope = 0.5
)

// Analysis is the trend verdict over the trailing window.
// Reported numbers are rounded to 2 decimals; Trend and IsViable use raw values.
type Analysis struct {
	Trend             Direction `json:"trend"`
	Method            Method    `json:"method"`
	IsViable          bool      `json:"is_viable"`
	AvgChangePerDay   float64   `json:"avg_change_per_day"`
	FinalVsInitial    float64   `json:"final_vs_initial"`
	InitialStock      float64   `json:"initial_stock"`
	FinalStock        float64   `json:"final_stock"`
	PeriodDays        int       `json:"period_days"`
	PeriodStart       *sim.Date `json:"period_start,omitempty"`
	PeriodEnd         *sim.Date `json:"period_end,omitempty"`
	StockoutsInPeriod int       `json:"stockouts_in_period"`
	DaysToStockout    *float64  `json:"days_to_stockout,omitempty"` // projection, only when descending
}

// Analyze classifies the last windowDays of the ledger (the whole ledger when shorter).
// windowDays <= 0 selects DefaultWindowDays; an empty method selects MethodEndpoint.
func Analyze(details []sim.DailyDetail, windowDays int, method Method) Analysis {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if method == "" {
		method = MethodEndpoint
	}
	n := min(windowDays, len(details))
	if n == 0 {
		return Analysis{Trend: Unknown, Method: method}
	}
	period := details[len(details)-n:]

	initial := period[0].StockStart
	final := period[n-1].StockEnd
	total := final - initial
	slope := total / float64(n)
	if method == MethodRegression && n > 1 {
		slope = regressionSlope(period)
	}

	a := Analysis{
		Method:         method,
		PeriodDays:     n,
		InitialStock:   sim.Round(initial, 2),
		FinalStock:     sim.Round(final, 2),
		FinalVsInitial: sim.Round(total, 2),
		PeriodStart:    &period[0].Date,
		PeriodEnd:      &period[n-1].Date,
	}
	a.AvgChangePerDay = sim.Round(slope, 2)

	switch {
	case slope < DescendingSlope:
		a.Trend = Descending
		days := sim.Round(final/math.Abs(slope), 1)
		a.DaysToStockout = &days
	case slope > AscendingSlope:
		a.Trend = Ascending
	default:
		a.Trend = Stable
	}

	for _, d := range period {
		if d.HasStockout {
			a.StockoutsInPeriod++
		}
	}
	a.IsViable = a.Trend != Descending && a.StockoutsInPeriod == 0
	return a
}

// regressionSlope fits stock_end = alpha + beta*day over the window and returns beta.
func regressionSlope(period []sim.DailyDetail) float64 {
	xs := make([]float64, len(period))
	ys := make([]float64, len(period))
	for i, d := range period {
		xs[i] = float64(i)
		ys[i] = d.StockEnd
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}
