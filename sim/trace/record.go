// Package trace records the simulation trials of a boundary search for offline analysis.
// This package has no dependencies on sim/ or sim/optimize/; it stores pure data types.
package trace

// TrialRecord captures one engine run of a search.
type TrialRecord struct {
	DailyConsumption float64 `json:"daily_consumption"`
	MaxOrderQuantity int     `json:"max_order_quantity"`
	Viable           bool    `json:"viable"`
	Stockouts        int     `json:"stockouts"`
	FinalStock       float64 `json:"final_stock"`
}
