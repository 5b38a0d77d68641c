package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityRank_UnknownSortsLast(t *testing.T) {
	assert.Less(t, PriorityRank(PriorityCritical), PriorityRank(PriorityHigh))
	assert.Less(t, PriorityRank(PriorityHigh), PriorityRank(PriorityMedium))
	assert.Less(t, PriorityRank(PriorityMedium), PriorityRank(PriorityLow))
	assert.Less(t, PriorityRank(PriorityLow), PriorityRank(PriorityInfo))
	assert.Less(t, PriorityRank(PriorityInfo), PriorityRank("urgent"))
	assert.Equal(t, PriorityRank("urgent"), PriorityRank(""))
}

func TestSortRecommendations_StableWithinPriority(t *testing.T) {
	recs := []Recommendation{
		{Priority: "urgent", Kind: "x"},
		{Priority: PriorityInfo, Kind: KindCurrentViable},
		{Priority: PriorityHigh, Kind: KindReduceConsumption},
		{Priority: PriorityInfo, Kind: KindConsumptionOptimal},
		{Priority: PriorityCritical, Kind: KindCurrentNotViable},
	}
	sortRecommendations(recs)
	assert.Equal(t, []Kind{KindCurrentNotViable, KindReduceConsumption, KindCurrentViable, KindConsumptionOptimal, "x"}, kinds(recs))
}

func TestGenerateRecommendations_ConsumptionBands(t *testing.T) {
	cfg := stockedConfig() // consumption 2.13, max order 10
	tests := []struct {
		name      string
		maxViable float64
		want      Kind
		priority  Priority
	}{
		{"above boundary", 2.0, KindReduceConsumption, PriorityHigh},
		{"well below boundary", 3.0, KindIncreaseConsumption, PriorityMedium},
		{"near boundary", 2.5, KindConsumptionOptimal, PriorityInfo},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mv := tc.maxViable
			mr := 10
			recs := generateRecommendations(cfg, true, &Boundaries{MaxViableConsumption: &mv, MinRequiredMaxOrder: &mr}, nil)
			r := find(recs, tc.want)
			if assert.NotNil(t, r) {
				assert.Equal(t, tc.priority, r.Priority)
				assert.Equal(t, CategoryConsumption, r.Category)
				assert.Equal(t, 2.13, *r.CurrentValue)
				assert.Equal(t, tc.maxViable, *r.SuggestedValue)
			}
		})
	}
}

func TestGenerateRecommendations_SupplyBands(t *testing.T) {
	cfg := stockedConfig() // max order 10
	mv := 2.5
	tests := []struct {
		required int
		want     Kind
		priority Priority
	}{
		{12, KindIncreaseMaxOrder, PriorityHigh},
		{6, KindReduceMaxOrder, PriorityLow},
		{8, KindMaxOrderAdequate, PriorityInfo},
	}
	for _, tc := range tests {
		mr := tc.required
		recs := generateRecommendations(cfg, true, &Boundaries{MaxViableConsumption: &mv, MinRequiredMaxOrder: &mr}, nil)
		r := find(recs, tc.want)
		if assert.NotNil(t, r, "required %d", tc.required) {
			assert.Equal(t, tc.priority, r.Priority)
			assert.Equal(t, CategorySupply, r.Category)
			assert.Equal(t, UnitUnits, r.Unit)
		}
	}
}

func TestGenerateRecommendations_ApplyOptimalThreshold(t *testing.T) {
	cfg := stockedConfig()
	mv, mr := 2.5, 10
	b := &Boundaries{MaxViableConsumption: &mv, MinRequiredMaxOrder: &mr}

	small := &OptimalConfiguration{IsOptimal: true, DailyConsumption: 2.5, MaxOrderQuantity: 10,
		ImprovementVsCurrent: Improvement{ConsumptionIncrease: 0.37}}
	assert.Nil(t, find(generateRecommendations(cfg, true, b, small), KindApplyOptimal), "gain below 0.5 with the same max order")

	reorder := &OptimalConfiguration{IsOptimal: true, DailyConsumption: 2.5, MaxOrderQuantity: 12,
		ImprovementVsCurrent: Improvement{ConsumptionIncrease: 0.37, OrderAdjustment: 2}}
	r := find(generateRecommendations(cfg, true, b, reorder), KindApplyOptimal)
	if assert.NotNil(t, r) {
		assert.Equal(t, PriorityMedium, r.Priority)
		assert.Equal(t, CategoryOptimization, r.Category)
		assert.Len(t, r.Action.Changes, 2)
	}

	notOptimal := *reorder
	notOptimal.IsOptimal = false
	assert.Nil(t, find(generateRecommendations(cfg, true, b, &notOptimal), KindApplyOptimal))
}

func TestGenerateRecommendations_NoBoundariesFallBack(t *testing.T) {
	recs := generateRecommendations(stockedConfig(), false, &Boundaries{}, nil)
	assert.Equal(t, []Kind{KindCurrentNotViable, KindReduceConsumption, KindIncreaseDeliveryCapacity, KindSearchExhausted}, kinds(recs))
	for _, r := range recs {
		assert.Nil(t, r.SuggestedValue)
	}
}

func TestGenerateRecommendations_NonViableChangesAreUrgent(t *testing.T) {
	// GIVEN boundaries that would suggest low and medium changes to a viable config
	cfg := stockedConfig()
	mv, mr := 3.0, 6
	b := &Boundaries{MaxViableConsumption: &mv, MinRequiredMaxOrder: &mr}
	reorder := &OptimalConfiguration{IsOptimal: true, DailyConsumption: 3.0, MaxOrderQuantity: 6,
		ImprovementVsCurrent: Improvement{ConsumptionIncrease: 0.87, OrderAdjustment: -4}}

	recs := generateRecommendations(cfg, false, b, reorder)

	// THEN every record carrying an action is at least high
	for _, r := range recs {
		if r.Action != nil {
			assert.LessOrEqual(t, PriorityRank(r.Priority), PriorityRank(PriorityHigh), "%s is %s", r.Kind, r.Priority)
		}
	}
	assert.Equal(t, PriorityHigh, find(recs, KindIncreaseConsumption).Priority)
	assert.Equal(t, PriorityHigh, find(recs, KindReduceMaxOrder).Priority)
	assert.Equal(t, PriorityHigh, find(recs, KindApplyOptimal).Priority)
}

func TestActionPriority(t *testing.T) {
	assert.Equal(t, PriorityLow, actionPriority(true, PriorityLow))
	assert.Equal(t, PriorityHigh, actionPriority(false, PriorityLow))
	assert.Equal(t, PriorityHigh, actionPriority(false, PriorityMedium))
	assert.Equal(t, PriorityCritical, actionPriority(false, PriorityCritical))
}
