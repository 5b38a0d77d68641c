package trace

// TraceSummary aggregates statistics from a SearchTrace.
// The viable extremes are 0 when no trial was viable.
type TraceSummary struct {
	TotalTrials          int         `json:"total_trials"`
	ViableCount          int         `json:"viable_count"`
	NonViableCount       int         `json:"non_viable_count"`
	MaxViableConsumption float64     `json:"max_viable_consumption"`
	MinViableMaxOrder    int         `json:"min_viable_max_order"`
	MaxOrderDistribution map[int]int `json:"max_order_distribution"` // max order → trials run with it
	UniqueMaxOrders      int         `json:"unique_max_orders"`
}

// Summarize computes aggregate statistics from a SearchTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SearchTrace) *TraceSummary {
	summary := &TraceSummary{
		MaxOrderDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	trials := st.Trials()
	summary.TotalTrials = len(trials)
	for _, t := range trials {
		summary.MaxOrderDistribution[t.MaxOrderQuantity]++
		if !t.Viable {
			summary.NonViableCount++
			continue
		}
		summary.ViableCount++
		if t.DailyConsumption > summary.MaxViableConsumption {
			summary.MaxViableConsumption = t.DailyConsumption
		}
		if summary.MinViableMaxOrder == 0 || t.MaxOrderQuantity < summary.MinViableMaxOrder {
			summary.MinViableMaxOrder = t.MaxOrderQuantity
		}
	}

	summary.UniqueMaxOrders = len(summary.MaxOrderDistribution)

	return summary
}
