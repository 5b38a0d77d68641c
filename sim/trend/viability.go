package trend

import (
	"gonum.org/v1/gonum/stat"

	"github.com/stocksim/stocksim/sim"
)

// Criterion selects the viability test applied to a completed run.
type Criterion string

const (
	// CriterionTrend: zero stockouts and a non-descending trailing trend (default).
	CriterionTrend Criterion = "trend"
	// CriterionRollingAverage: zero stockouts and non-overlapping 3-day closing
	// averages whose second half does not fall more than RollingTolerance below the first.
	CriterionRollingAverage Criterion = "rolling-average"
)

var validCriteria = map[Criterion]bool{"": true, CriterionTrend: true, CriterionRollingAverage: true}

// IsValidCriterion returns true if name is a recognized viability criterion.
func IsValidCriterion(name string) bool { return validCriteria[Criterion(name)] }

const (
	// RollingTolerance is the accepted relative drop between the two halves.
	RollingTolerance = 0.05
	// MinRollingAverages is the number of 3-day averages needed for a verdict.
	MinRollingAverages = 10
)

// Evaluator holds the knobs of a viability check. The zero value uses the
// trend criterion, the default window and the endpoint method.
type Evaluator struct {
	Criterion  Criterion
	WindowDays int
	Method     Method
}

// Viable reports whether res has no stockouts and a sustainable trajectory.
// A run still waiting for sales to start on its last day serves no demand and is not viable.
func (e Evaluator) Viable(res *sim.SimulationResult) bool {
	if res.Statistics.StockoutsCount > 0 {
		return false
	}
	if n := len(res.DailyDetails); n == 0 || !res.DailyDetails[n-1].SalesActive {
		return false
	}
	if e.Criterion == CriterionRollingAverage {
		return RollingAverageViable(res.DailyDetails)
	}
	return Analyze(res.DailyDetails, e.WindowDays, e.Method).Trend != Descending
}

// Trend runs Analyze with the evaluator's window and method.
func (e Evaluator) Trend(res *sim.SimulationResult) Analysis {
	return Analyze(res.DailyDetails, e.WindowDays, e.Method)
}

// RollingAverageViable compares the mean of the first and second halves of the
// non-overlapping 3-day closing-stock averages. Too short a ledger is not viable.
func RollingAverageViable(details []sim.DailyDetail) bool {
	var averages []float64
	for i := 0; i+2 < len(details); i += 3 {
		averages = append(averages, (details[i].StockEnd+details[i+1].StockEnd+details[i+2].StockEnd)/3)
	}
	if len(averages) < MinRollingAverages {
		return false
	}
	mid := len(averages) / 2
	first := stat.Mean(averages[:mid], nil)
	second := stat.Mean(averages[mid:], nil)
	return second >= first-first*RollingTolerance
}
