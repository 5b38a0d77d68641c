package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/optimize"
	"github.com/stocksim/stocksim/sim/trend"
)

func TestSolutionType_IsOK(t *testing.T) {
	assert.True(t, SolutionConsumptionOK.IsOK())
	assert.True(t, SolutionMaxOrderOK.IsOK())
	assert.False(t, SolutionReduceConsumption.IsOK())
	assert.False(t, SolutionIncreaseMaxOrder.IsOK())
}

func TestFindStabilitySolutions_ViableConfigIsStable(t *testing.T) {
	// GIVEN a viable configuration under both boundaries
	s, err := findStabilitySolutions(context.Background(), stockedConfig(), true, optimize.Options{})

	// THEN both axes confirm the current values
	require.NoError(t, err)
	assert.Equal(t, StatusStable, s.Status)
	assert.Equal(t, []Solution{
		{Type: SolutionConsumptionOK, CurrentValue: 2.13, SuggestedValue: 2.13},
		{Type: SolutionMaxOrderOK, CurrentValue: 10, SuggestedValue: 10},
	}, s.Solutions)
	require.NotNil(t, s.MaxViableConsumption)
	assert.Equal(t, 2.4, *s.MaxViableConsumption)
	require.NotNil(t, s.MinRequiredMaxOrder)
	assert.Equal(t, 6, *s.MinRequiredMaxOrder)
	require.NotNil(t, s.ConsumptionUtilizationRate)
	assert.Equal(t, 88.75, *s.ConsumptionUtilizationRate)
	assert.False(t, s.Truncated)
}

func TestFindStabilitySolutions_OverdemandProposesLowerConsumption(t *testing.T) {
	// GIVEN demand no max order in range can sustain
	s, err := findStabilitySolutions(context.Background(), overdemandConfig(), false, optimize.Options{})

	// THEN only the consumption axis yields a solution
	require.NoError(t, err)
	assert.Equal(t, StatusSolutionsProposed, s.Status)
	assert.Equal(t, []Solution{{Type: SolutionReduceConsumption, CurrentValue: 6, SuggestedValue: 3.5}}, s.Solutions)
	assert.Nil(t, s.MinRequiredMaxOrder)
	assert.Nil(t, s.ConsumptionUtilizationRate)
}

func TestFindStabilitySolutions_RegressionFindsBothAxes(t *testing.T) {
	opts := optimize.Options{Viability: trend.Evaluator{Method: trend.MethodRegression}}

	s, err := findStabilitySolutions(context.Background(), overdemandConfig(), false, opts)

	require.NoError(t, err)
	assert.Equal(t, StatusSolutionsProposed, s.Status)
	assert.Equal(t, []Solution{
		{Type: SolutionReduceConsumption, CurrentValue: 6, SuggestedValue: 3.96},
		{Type: SolutionIncreaseMaxOrder, CurrentValue: 10, SuggestedValue: 18},
	}, s.Solutions)
}

func TestFindStabilitySolutions_GatedDefaultNeverConfirmsCurrentValues(t *testing.T) {
	// GIVEN the default config, not viable at max order 10 although 6 would be
	s, err := findStabilitySolutions(context.Background(), sim.DefaultConfig(), false, optimize.Options{Workers: 1})

	// THEN both axes propose a change and neither confirms the current value
	require.NoError(t, err)
	assert.Equal(t, StatusSolutionsProposed, s.Status)
	assert.Equal(t, []Solution{
		{Type: SolutionReduceConsumption, CurrentValue: 2.13, SuggestedValue: 0.28},
		{Type: SolutionIncreaseMaxOrder, CurrentValue: 10, SuggestedValue: 12},
	}, s.Solutions)
	require.NotNil(t, s.MinRequiredMaxOrder)
	assert.Equal(t, 12, *s.MinRequiredMaxOrder)
}

func TestFindStabilitySolutions_NoSolutionWhenNothingFound(t *testing.T) {
	// GIVEN a cancelled search on a non-viable configuration
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := findStabilitySolutions(ctx, overdemandConfig(), false, optimize.Options{})

	require.NoError(t, err)
	assert.True(t, s.Truncated)
	assert.Empty(t, s.Solutions)
	assert.Equal(t, StatusNoSolution, s.Status)
}
