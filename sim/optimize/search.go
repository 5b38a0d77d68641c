package optimize

import (
	"context"
	"errors"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// MinConsumption is the lowest daily consumption the bisection tests.
	MinConsumption = 0.1
	// ConsumptionPrecision stops the bisection once the bracket is this narrow.
	ConsumptionPrecision = 0.1
	// ConsumptionRangeFactor: the upper bracket is this multiple of max_order_quantity.
	ConsumptionRangeFactor = 2
	// OrderRangeFactor: max_order_quantity candidates go up to this multiple of the current value.
	OrderRangeFactor = 3
)

// SearchMethod names the algorithm used on an axis.
type SearchMethod string

const (
	MethodBisection   SearchMethod = "bisection"
	MethodLotGridScan SearchMethod = "lot-grid-scan"
)

// AxisStatus is the verdict on the current value of a searched parameter.
type AxisStatus string

const (
	StatusViable       AxisStatus = "viable"
	StatusNonViable    AxisStatus = "non-viable"
	StatusSufficient   AxisStatus = "sufficient"
	StatusInsufficient AxisStatus = "insufficient"
	StatusNotFound     AxisStatus = "not_found" // no boundary inside the range
)

// AxisReport describes one boundary search.
type AxisReport struct {
	Method       SearchMethod `json:"method"`
	RangeMin     float64      `json:"range_min"`
	RangeMax     float64      `json:"range_max"`
	Step         float64      `json:"step"` // bisection precision or lot size
	CurrentValue float64      `json:"current_value"`
	Found        *float64     `json:"found"`
	Status       AxisStatus   `json:"status"`
	Trials       int          `json:"trials"`
	Truncated    bool         `json:"truncated,omitempty"`
}

// maxViableConsumption bisects daily_consumption at a fixed max order quantity.
// The current consumption seeds the bracket. Midpoints are truncated to 2 decimals
// before they are tested, so the reported boundary is always a simulated viable value.
// A cancelled ctx returns the best value found so far.
func maxViableConsumption(ctx context.Context, r *trialRunner, maxOrder int) (*float64, AxisReport, error) {
	current := r.base.DailyConsumption
	lo, hi := MinConsumption, float64(maxOrder)*ConsumptionRangeFactor
	report := AxisReport{
		Method:       MethodBisection,
		RangeMin:     lo,
		RangeMax:     hi,
		Step:         ConsumptionPrecision,
		CurrentValue: current,
	}

	var best *float64
	ok, err := r.viable(ctx, current, maxOrder)
	report.Trials++
	if err != nil {
		return searchStopped(nil, report, err)
	}
	if ok {
		lo = current
		best = &current
	} else {
		hi = current
	}
	for hi-lo > ConsumptionPrecision {
		mid := truncate2((lo + hi) / 2)
		ok, err := r.viable(ctx, mid, maxOrder)
		report.Trials++
		if err != nil {
			return searchStopped(best, report, err)
		}
		if ok {
			v := mid
			best = &v
			lo = mid
		} else {
			hi = mid
		}
	}

	report.Found = best
	switch {
	case best == nil:
		report.Status = StatusNotFound
	case current <= *best:
		report.Status = StatusViable
	default:
		report.Status = StatusNonViable
	}
	return best, report, nil
}

// minRequiredMaxOrder scans lot multiples of max_order_quantity for the smallest one
// that keeps the current consumption viable. Viability is not monotone in max order, so
// the grid is walked in order, workers candidates at a time, and the first viable value
// wins. The bracket follows the current value: [max(min_order_quantity, lot), current]
// when it is viable, (current, OrderRangeFactor x current] when it is not. A value below
// a non-viable current is therefore never reported.
func minRequiredMaxOrder(ctx context.Context, r *trialRunner, workers int) (*int, AxisReport, error) {
	lot := r.base.LotSize
	current := r.base.MaxOrderQuantity
	consumption := r.base.DailyConsumption
	report := AxisReport{
		Method:       MethodLotGridScan,
		Step:         float64(lot),
		CurrentValue: float64(current),
	}

	currentOK, err := r.viable(ctx, consumption, current)
	report.Trials++
	if err != nil {
		return searchStoppedInt(nil, report, err)
	}
	var found *int
	var loK, hiK int
	if currentOK {
		found = &current
		loK = max(r.base.MinOrderQuantity, lot) / lot
		hiK = (current - 1) / lot
		report.RangeMin, report.RangeMax = float64(loK*lot), float64(current)
	} else {
		loK = current/lot + 1
		hiK = max(current*OrderRangeFactor/lot, loK)
		report.RangeMin, report.RangeMax = float64(current), float64(hiK*lot)
	}

	workers = max(workers, 1)
	for start := loK; start <= hiK; start += workers {
		end := min(start+workers-1, hiK)
		results := make([]bool, end-start+1)
		g := new(errgroup.Group)
		for k := start; k <= end; k++ {
			k := k
			g.Go(func() error {
				ok, err := r.viable(ctx, consumption, k*lot)
				results[k-start] = ok
				return err
			})
		}
		err := g.Wait()
		report.Trials += end - start + 1
		if err != nil {
			return searchStoppedInt(found, report, err)
		}
		if i := slices.Index(results, true); i >= 0 {
			v := (start + i) * lot
			found = &v
			break
		}
	}

	report.Found = intToFloat(found)
	switch {
	case found == nil:
		report.Status = StatusNotFound
	case currentOK && *found <= current:
		report.Status = StatusSufficient
	default:
		report.Status = StatusInsufficient
	}
	return found, report, nil
}

// searchStopped turns a context error into a truncated report. Other errors propagate.
func searchStopped(best *float64, report AxisReport, err error) (*float64, AxisReport, error) {
	if !isContextErr(err) {
		return nil, report, err
	}
	report.Truncated = true
	report.Found = best
	report.Status = StatusNotFound
	if best != nil {
		report.Status = StatusViable
		if report.CurrentValue > *best {
			report.Status = StatusNonViable
		}
	}
	return best, report, nil
}

func searchStoppedInt(best *int, report AxisReport, err error) (*int, AxisReport, error) {
	if !isContextErr(err) {
		return nil, report, err
	}
	report.Truncated = true
	report.Found = intToFloat(best)
	report.Status = StatusNotFound
	if best != nil {
		report.Status = StatusSufficient
		if int(report.CurrentValue) < *best {
			report.Status = StatusInsufficient
		}
	}
	return best, report, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func truncate2(v float64) float64 {
	t, _ := decimal.NewFromFloat(v).Truncate(2).Float64()
	return t
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
