package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/trend"
)

func adviceCodes(advice []Advice) []AdviceCode {
	out := make([]AdviceCode, len(advice))
	for i, a := range advice {
		out[i] = a.Code
	}
	return out
}

func TestDeriveFindings_AscendingOverstock(t *testing.T) {
	// GIVEN a build-up whose average sits above 80% of max_stock
	cfg := stockedConfig()
	st := sim.SimulationStatistics{AverageStock: 40, MinStock: 30, TotalOrders: 4, TotalOrdered: 40}
	tr := trend.Analysis{Trend: trend.Ascending}
	m := Metrics{AverageDaysOfStock: 10, AverageOrderSize: 10}

	risks, advice := deriveFindings(cfg, st, tr, m, StabilitySolutions{})

	// THEN only the threshold reduction is advised
	assert.Empty(t, risks)
	require.Len(t, advice, 1)
	assert.Equal(t, AdviceReduceReorderThreshold, advice[0].Code)
	assert.Equal(t, 40.0, *advice[0].Value)
}

func TestDeriveFindings_AscendingBelowRatioIsQuiet(t *testing.T) {
	cfg := stockedConfig()
	st := sim.SimulationStatistics{AverageStock: 30, MinStock: 20}
	tr := trend.Analysis{Trend: trend.Ascending}

	risks, advice := deriveFindings(cfg, st, tr, Metrics{AverageDaysOfStock: 10}, StabilitySolutions{})

	assert.Empty(t, risks)
	assert.Empty(t, advice)
	assert.NotNil(t, risks)
	assert.NotNil(t, advice)
}

func TestDeriveFindings_SmallOrders(t *testing.T) {
	// GIVEN orders averaging under half the max order quantity
	cfg := stockedConfig()
	st := sim.SimulationStatistics{AverageStock: 30, MinStock: 20, TotalOrders: 5, TotalOrdered: 20}
	m := Metrics{AverageDaysOfStock: 10, AverageOrderSize: 4}

	_, advice := deriveFindings(cfg, st, trend.Analysis{Trend: trend.Stable}, m, StabilitySolutions{})

	require.Len(t, advice, 1)
	assert.Equal(t, AdviceSmallOrders, advice[0].Code)
	assert.Equal(t, 4.0, *advice[0].Value)
}

func TestDeriveFindings_DaysOfStockBands(t *testing.T) {
	cfg := stockedConfig()
	st := sim.SimulationStatistics{AverageStock: 30, MinStock: 20}
	stable := trend.Analysis{Trend: trend.Stable}

	tests := []struct {
		name       string
		days       float64
		wantRisk   bool
		wantAdvice bool
	}{
		{"above high band", 14.5, false, true},
		{"at high band", 14, false, false},
		{"inside band", 8, false, false},
		{"at low band", 5, false, false},
		{"below low band", 4.99, true, false},
		{"zero cover", 0, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			risks, advice := deriveFindings(cfg, st, stable, Metrics{AverageDaysOfStock: tc.days}, StabilitySolutions{})
			if tc.wantRisk {
				require.Len(t, risks, 1)
				assert.Equal(t, RiskLowDaysOfStock, risks[0].Code)
			} else {
				assert.Empty(t, risks)
			}
			if tc.wantAdvice {
				assert.Equal(t, []AdviceCode{AdviceReduceThresholdExcessStock}, adviceCodes(advice))
			} else {
				assert.Empty(t, advice)
			}
		})
	}
}

func TestDeriveFindings_StabilitySolutionsBecomeAdvice(t *testing.T) {
	cfg := stockedConfig()
	st := sim.SimulationStatistics{AverageStock: 30, MinStock: 20}
	stab := StabilitySolutions{Solutions: []Solution{
		{Type: SolutionReduceConsumption, CurrentValue: 2.13, SuggestedValue: 1.5},
		{Type: SolutionIncreaseMaxOrder, CurrentValue: 10, SuggestedValue: 14},
		{Type: SolutionConsumptionOK, CurrentValue: 2.13, SuggestedValue: 2.13},
	}}

	_, advice := deriveFindings(cfg, st, trend.Analysis{Trend: trend.Stable}, Metrics{AverageDaysOfStock: 10}, stab)

	// THEN ok solutions add nothing
	assert.Equal(t, []AdviceCode{AdviceReduceConsumption, AdviceIncreaseMaxOrder}, adviceCodes(advice))
	assert.Equal(t, 1.5, *advice[0].Value)
	assert.Equal(t, 14.0, *advice[1].Value)
}

func TestDeriveFindings_ValuesAreRounded(t *testing.T) {
	cfg := stockedConfig()
	st := sim.SimulationStatistics{AverageStock: 30, MinStock: 3.14159}

	risks, _ := deriveFindings(cfg, st, trend.Analysis{Trend: trend.Stable}, Metrics{AverageDaysOfStock: 10}, StabilitySolutions{})

	require.Len(t, risks, 1)
	assert.Equal(t, RiskLowMinStock, risks[0].Code)
	assert.Equal(t, 3.14, *risks[0].Value)
}
