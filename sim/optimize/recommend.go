package optimize

import "github.com/stocksim/stocksim/sim"

// Priority of a recommendation. Unknown values sort last.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	PriorityInfo     Priority = "info"
)

var priorityRanks = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
	PriorityInfo:     4,
}

// PriorityRank maps a priority to its sort rank. Unrecognized strings rank after info.
func PriorityRank(p Priority) int {
	if r, ok := priorityRanks[p]; ok {
		return r
	}
	return len(priorityRanks)
}

// Category groups recommendations by the parameter they concern.
type Category string

const (
	CategoryStatus       Category = "status"
	CategoryConsumption  Category = "consumption"
	CategorySupply       Category = "supply"
	CategoryOptimization Category = "optimization"
)

// Kind is the machine-readable recommendation code. Consumers render the text.
type Kind string

const (
	KindCurrentViable            Kind = "current_viable"
	KindCurrentNotViable         Kind = "current_not_viable"
	KindReduceConsumption        Kind = "reduce_consumption"
	KindIncreaseConsumption      Kind = "increase_consumption"
	KindConsumptionOptimal       Kind = "consumption_optimal"
	KindIncreaseMaxOrder         Kind = "increase_max_order"
	KindReduceMaxOrder           Kind = "reduce_max_order"
	KindMaxOrderAdequate         Kind = "max_order_adequate"
	KindIncreaseDeliveryCapacity Kind = "increase_delivery_capacity"
	KindSearchExhausted          Kind = "search_exhausted"
	KindApplyOptimal             Kind = "apply_optimal"
)

// Units of CurrentValue/SuggestedValue.
const (
	UnitPerDay = "units/day"
	UnitUnits  = "units"
)

// Parameter names used in actions; they match the config's yaml/json keys.
const (
	ParamDailyConsumption = "daily_consumption"
	ParamMaxOrderQuantity = "max_order_quantity"
)

const (
	// underuseRatio: consumption below this share of the maximum is an opportunity.
	underuseRatio = 0.8
	// oversupplyRatio: max order above this multiple of the minimum required can shrink.
	oversupplyRatio = 1.5
	// minConsumptionGain below which the optimal pair is not worth proposing
	// unless the max order changes.
	minConsumptionGain = 0.5
)

// ParameterChange is one config edit.
type ParameterChange struct {
	Parameter string  `json:"parameter"`
	From      float64 `json:"from"`
	To        float64 `json:"to"`
}

// Action is what applying a recommendation changes. Nil for informational records.
type Action struct {
	Kind    Kind              `json:"kind"`
	Changes []ParameterChange `json:"changes"`
}

// Recommendation is a structured advice record.
type Recommendation struct {
	Priority       Priority `json:"priority"`
	Category       Category `json:"category"`
	Kind           Kind     `json:"kind"`
	CurrentValue   *float64 `json:"current_value,omitempty"`
	SuggestedValue *float64 `json:"suggested_value,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	Action         *Action  `json:"action"`
}

func change(kind Kind, param string, from, to float64) *Action {
	return &Action{Kind: kind, Changes: []ParameterChange{{Parameter: param, From: from, To: to}}}
}

func floatPtr(v float64) *float64 { return &v }

// actionPriority raises p to high for a config that is not viable: any change
// proposed for a failing config is urgent.
func actionPriority(viable bool, p Priority) Priority {
	if !viable && PriorityRank(p) > PriorityRank(PriorityHigh) {
		return PriorityHigh
	}
	return p
}

// generateRecommendations derives the advice list from the boundaries and the optimal
// configuration, sorted by priority.
func generateRecommendations(cfg sim.SimulationConfig, viable bool, b *Boundaries, optimal *OptimalConfiguration) []Recommendation {
	recs := []Recommendation{}
	consumption := cfg.DailyConsumption
	maxOrder := float64(cfg.MaxOrderQuantity)

	if viable {
		recs = append(recs, Recommendation{Priority: PriorityInfo, Category: CategoryStatus, Kind: KindCurrentViable})
	} else {
		recs = append(recs, Recommendation{Priority: PriorityCritical, Category: CategoryStatus, Kind: KindCurrentNotViable})
	}

	if mv := b.MaxViableConsumption; mv != nil {
		switch {
		case consumption > *mv:
			recs = append(recs, Recommendation{
				Priority: PriorityHigh, Category: CategoryConsumption, Kind: KindReduceConsumption,
				CurrentValue: floatPtr(consumption), SuggestedValue: floatPtr(*mv), Unit: UnitPerDay,
				Action: change(KindReduceConsumption, ParamDailyConsumption, consumption, *mv),
			})
		case consumption < *mv*underuseRatio:
			recs = append(recs, Recommendation{
				Priority: actionPriority(viable, PriorityMedium), Category: CategoryConsumption, Kind: KindIncreaseConsumption,
				CurrentValue: floatPtr(consumption), SuggestedValue: floatPtr(*mv), Unit: UnitPerDay,
				Action: change(KindIncreaseConsumption, ParamDailyConsumption, consumption, *mv),
			})
		default:
			recs = append(recs, Recommendation{
				Priority: PriorityInfo, Category: CategoryConsumption, Kind: KindConsumptionOptimal,
				CurrentValue: floatPtr(consumption), SuggestedValue: floatPtr(*mv), Unit: UnitPerDay,
			})
		}
	} else if !viable {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh, Category: CategoryConsumption, Kind: KindReduceConsumption,
			CurrentValue: floatPtr(consumption), Unit: UnitPerDay,
		})
	}

	if mr := b.MinRequiredMaxOrder; mr != nil {
		required := float64(*mr)
		switch {
		case maxOrder < required:
			recs = append(recs, Recommendation{
				Priority: PriorityHigh, Category: CategorySupply, Kind: KindIncreaseMaxOrder,
				CurrentValue: floatPtr(maxOrder), SuggestedValue: floatPtr(required), Unit: UnitUnits,
				Action: change(KindIncreaseMaxOrder, ParamMaxOrderQuantity, maxOrder, required),
			})
		case maxOrder > required*oversupplyRatio:
			recs = append(recs, Recommendation{
				Priority: actionPriority(viable, PriorityLow), Category: CategorySupply, Kind: KindReduceMaxOrder,
				CurrentValue: floatPtr(maxOrder), SuggestedValue: floatPtr(required), Unit: UnitUnits,
				Action: change(KindReduceMaxOrder, ParamMaxOrderQuantity, maxOrder, required),
			})
		default:
			recs = append(recs, Recommendation{
				Priority: PriorityInfo, Category: CategorySupply, Kind: KindMaxOrderAdequate,
				CurrentValue: floatPtr(maxOrder), SuggestedValue: floatPtr(required), Unit: UnitUnits,
			})
		}
	} else if !viable {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh, Category: CategorySupply, Kind: KindIncreaseDeliveryCapacity,
			CurrentValue: floatPtr(maxOrder), Unit: UnitUnits,
		})
	}

	if b.MaxViableConsumption == nil || b.MinRequiredMaxOrder == nil {
		recs = append(recs, Recommendation{Priority: PriorityInfo, Category: CategoryOptimization, Kind: KindSearchExhausted})
	}

	if optimal != nil && optimal.IsOptimal {
		imp := optimal.ImprovementVsCurrent
		if imp.ConsumptionIncrease > minConsumptionGain || imp.OrderAdjustment != 0 {
			act := &Action{Kind: KindApplyOptimal}
			if optimal.DailyConsumption != consumption {
				act.Changes = append(act.Changes, ParameterChange{Parameter: ParamDailyConsumption, From: consumption, To: optimal.DailyConsumption})
			}
			if imp.OrderAdjustment != 0 {
				act.Changes = append(act.Changes, ParameterChange{Parameter: ParamMaxOrderQuantity, From: maxOrder, To: float64(optimal.MaxOrderQuantity)})
			}
			recs = append(recs, Recommendation{
				Priority: actionPriority(viable, PriorityMedium), Category: CategoryOptimization, Kind: KindApplyOptimal,
				Action: act,
			})
		}
	}

	sortRecommendations(recs)
	return recs
}
