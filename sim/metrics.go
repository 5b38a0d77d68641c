// Aggregates the daily ledger into run-level statistics.

package sim

import "github.com/shopspring/decimal"

// SimulationStatistics aggregates a run for final reporting.
// Always derived from the ledger by ComputeStatistics; never set field by field.
type SimulationStatistics struct {
	FinalStock     float64 `json:"final_stock"`
	StockoutsCount int     `json:"stockouts_count"` // days flagged has_stockout
	TotalOrdered   int     `json:"total_ordered"`   // units ordered over the horizon
	AverageStock   float64 `json:"average_stock"`   // mean closing stock
	MinStock       float64 `json:"min_stock"`
	MaxStock       float64 `json:"max_stock"`
	TotalEvents    int     `json:"total_events"`
	TotalOrders    int     `json:"total_orders"`
	TotalDelivered float64 `json:"total_delivered"` // units credited to stock
	TotalConsumed  float64 `json:"total_consumed"`
	TotalOverflow  float64 `json:"total_overflow"` // units discarded by the clamp policy
}

// ComputeStatistics folds the ledger into statistics. totalEvents is the event log length.
func ComputeStatistics(details []DailyDetail, totalEvents int) SimulationStatistics {
	st := SimulationStatistics{TotalEvents: totalEvents}
	if len(details) == 0 {
		return st
	}
	st.MinStock = details[0].StockEnd
	st.MaxStock = details[0].StockEnd
	sum := 0.0
	for _, d := range details {
		sum += d.StockEnd
		st.MinStock = min(st.MinStock, d.StockEnd)
		st.MaxStock = max(st.MaxStock, d.StockEnd)
		if d.HasStockout {
			st.StockoutsCount++
		}
		st.TotalOrders += d.OrdersPlaced
		st.TotalOrdered += d.OrderQuantity
		st.TotalDelivered += d.Deliveries
		st.TotalConsumed += d.Consumption
		st.TotalOverflow += d.Overflow
	}
	st.AverageStock = sum / float64(len(details))
	st.FinalStock = details[len(details)-1].StockEnd
	return st
}

// Round rounds v half away from zero to the given decimal places, for reporting.
// Classification logic must use unrounded values.
func Round(v float64, places int32) float64 {
	if !isFinite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
