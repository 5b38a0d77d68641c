package analysis

import (
	"context"

	"github.com/stocksim/stocksim/sim"
	"github.com/stocksim/stocksim/sim/optimize"
)

// SolutionType is the closed set of stability solution codes.
type SolutionType string

const (
	SolutionReduceConsumption SolutionType = "reduce_consumption"
	SolutionConsumptionOK     SolutionType = "consumption_ok"
	SolutionIncreaseMaxOrder  SolutionType = "increase_max_order"
	SolutionMaxOrderOK        SolutionType = "max_order_ok"
)

// IsOK reports whether t confirms the current value instead of proposing a change.
func (t SolutionType) IsOK() bool {
	return t == SolutionConsumptionOK || t == SolutionMaxOrderOK
}

// StabilityStatus summarizes the solutions.
type StabilityStatus string

const (
	StatusStable            StabilityStatus = "stable"
	StatusSolutionsProposed StabilityStatus = "solutions_proposed"
	StatusNoSolution        StabilityStatus = "no_solution"
)

// Solution is one way to reach a viable configuration, changing a single parameter.
type Solution struct {
	Type           SolutionType `json:"type"`
	CurrentValue   float64      `json:"current_value"`
	SuggestedValue float64      `json:"suggested_value"`
}

// StabilitySolutions reports both viability boundaries and what they imply.
type StabilitySolutions struct {
	Status                     StabilityStatus `json:"status"`
	CurrentConsumption         float64         `json:"current_consumption"`
	CurrentMaxOrder            int             `json:"current_max_order"`
	MaxViableConsumption       *float64        `json:"max_viable_consumption"`
	MinRequiredMaxOrder        *int            `json:"min_required_max_order"`
	ConsumptionUtilizationRate *float64        `json:"consumption_utilization_rate,omitempty"`
	Solutions                  []Solution      `json:"solutions"`
	Truncated                  bool            `json:"truncated,omitempty"`
}

// findStabilitySolutions runs the optimizer's boundary search and turns the two
// frontiers into single-parameter solutions. Only a viable config gets the *_ok codes.
func findStabilitySolutions(ctx context.Context, cfg sim.SimulationConfig, viable bool, opts optimize.Options) (StabilitySolutions, error) {
	s := StabilitySolutions{
		CurrentConsumption: cfg.DailyConsumption,
		CurrentMaxOrder:    cfg.MaxOrderQuantity,
		Solutions:          []Solution{},
	}
	b, err := optimize.FindBoundaries(ctx, cfg, opts)
	if err != nil {
		return s, err
	}
	s.MaxViableConsumption = b.MaxViableConsumption
	s.MinRequiredMaxOrder = b.MinRequiredMaxOrder
	s.Truncated = b.Truncated

	if mv := b.MaxViableConsumption; mv != nil {
		if cfg.DailyConsumption > *mv {
			s.Solutions = append(s.Solutions, Solution{Type: SolutionReduceConsumption, CurrentValue: cfg.DailyConsumption, SuggestedValue: *mv})
		} else if viable {
			s.Solutions = append(s.Solutions, Solution{Type: SolutionConsumptionOK, CurrentValue: cfg.DailyConsumption, SuggestedValue: cfg.DailyConsumption})
		}
		if viable && *mv > 0 {
			rate := sim.Round(cfg.DailyConsumption / *mv * 100, 2)
			s.ConsumptionUtilizationRate = &rate
		}
	}
	if mr := b.MinRequiredMaxOrder; mr != nil {
		current := float64(cfg.MaxOrderQuantity)
		if *mr > cfg.MaxOrderQuantity {
			s.Solutions = append(s.Solutions, Solution{Type: SolutionIncreaseMaxOrder, CurrentValue: current, SuggestedValue: float64(*mr)})
		} else if viable {
			s.Solutions = append(s.Solutions, Solution{Type: SolutionMaxOrderOK, CurrentValue: current, SuggestedValue: current})
		}
	}

	s.Status = StatusStable
	proposed := false
	for _, sol := range s.Solutions {
		if !sol.Type.IsOK() {
			proposed = true
		}
	}
	switch {
	case proposed:
		s.Status = StatusSolutionsProposed
	case !viable:
		s.Status = StatusNoSolution
	}
	return s, nil
}
