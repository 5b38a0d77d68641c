package analysis

import (
	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/trend"
)

// RiskCode identifies a detected risk.
type RiskCode string

const (
	RiskDescendingTrend RiskCode = "descending_trend" // value: avg change per day
	RiskStockouts       RiskCode = "stockouts"        // value: stockout days
	RiskLowMinStock     RiskCode = "low_min_stock"    // value: min stock
	RiskLowDaysOfStock  RiskCode = "low_days_of_stock"
)

// AdviceCode identifies an improvement suggestion.
type AdviceCode string

const (
	AdviceIncreaseMaxOrderQuantity   AdviceCode = "increase_max_order_quantity"
	AdviceReduceLeadTime             AdviceCode = "reduce_lead_time"
	AdviceIncreaseInitialStock       AdviceCode = "increase_initial_stock"
	AdviceReduceReorderThreshold     AdviceCode = "reduce_reorder_threshold"
	AdviceRaiseReorderThreshold      AdviceCode = "raise_reorder_threshold"
	AdviceRaiseThresholdForSafety    AdviceCode = "raise_reorder_threshold_safety"
	AdviceReduceThresholdExcessStock AdviceCode = "reduce_threshold_excess_days"
	AdviceSmallOrders                AdviceCode = "small_orders"
	AdviceReduceConsumption          AdviceCode = "reduce_consumption"
	AdviceIncreaseMaxOrder           AdviceCode = "increase_max_order"
)

// Risk is a structured risk finding.
type Risk struct {
	Code  RiskCode `json:"code"`
	Value *float64 `json:"value,omitempty"`
}

// Advice is a structured recommendation finding.
type Advice struct {
	Code  AdviceCode `json:"code"`
	Value *float64   `json:"value,omitempty"`
}

const (
	// LowStockUnits: a minimum closing stock under this is a risk.
	LowStockUnits = 10
	// LowDaysOfStock: average cover under this many days is a risk.
	LowDaysOfStock = 5
	// HighDaysOfStock: average cover above this many days suggests a lower threshold.
	HighDaysOfStock = 14
	// HighStockRatio of max_stock above which an ascending run is overstocked.
	HighStockRatio = 0.8
	// SmallOrderRatio of max_order_quantity under which orders count as small.
	SmallOrderRatio = 0.5
)

func value(v float64) *float64 {
	r := sim.Round(v, 2)
	return &r
}

// deriveFindings applies the risk and advice rules to a completed run.
func deriveFindings(cfg sim.SimulationConfig, st sim.SimulationStatistics, tr trend.Analysis, m Metrics, stab StabilitySolutions) ([]Risk, []Advice) {
	risks := []Risk{}
	advice := []Advice{}

	switch tr.Trend {
	case trend.Descending:
		risks = append(risks, Risk{Code: RiskDescendingTrend, Value: value(tr.AvgChangePerDay)})
		advice = append(advice,
			Advice{Code: AdviceIncreaseMaxOrderQuantity},
			Advice{Code: AdviceReduceLeadTime},
			Advice{Code: AdviceIncreaseInitialStock},
		)
	case trend.Ascending:
		if st.AverageStock > cfg.MaxStock*HighStockRatio {
			advice = append(advice, Advice{Code: AdviceReduceReorderThreshold, Value: value(st.AverageStock)})
		}
	}

	if st.StockoutsCount > 0 {
		risks = append(risks, Risk{Code: RiskStockouts, Value: value(float64(st.StockoutsCount))})
		advice = append(advice, Advice{Code: AdviceRaiseReorderThreshold})
	}

	if st.MinStock >= 0 && st.MinStock < LowStockUnits {
		risks = append(risks, Risk{Code: RiskLowMinStock, Value: value(st.MinStock)})
		advice = append(advice, Advice{Code: AdviceRaiseThresholdForSafety})
	}

	switch days := m.AverageDaysOfStock; {
	case days > HighDaysOfStock:
		advice = append(advice, Advice{Code: AdviceReduceThresholdExcessStock, Value: value(days)})
	case days > 0 && days < LowDaysOfStock:
		risks = append(risks, Risk{Code: RiskLowDaysOfStock, Value: value(days)})
	}

	if st.TotalOrders > 0 && m.AverageOrderSize < float64(cfg.MaxOrderQuantity)*SmallOrderRatio {
		advice = append(advice, Advice{Code: AdviceSmallOrders, Value: value(m.AverageOrderSize)})
	}

	for _, sol := range stab.Solutions {
		switch sol.Type {
		case SolutionReduceConsumption:
			advice = append(advice, Advice{Code: AdviceReduceConsumption, Value: value(sol.SuggestedValue)})
		case SolutionIncreaseMaxOrder:
			advice = append(advice, Advice{Code: AdviceIncreaseMaxOrder, Value: value(sol.SuggestedValue)})
		}
	}
	return risks, advice
}
