package sim

import (
	"fmt"
	"math"
	"time"
)

// ReplenishmentPolicy decides at close of business whether to place an order
// and for what quantity. Implementations must be pure functions of their inputs.
type ReplenishmentPolicy interface {
	Evaluate(stockEnd float64, book *OrderBook, cfg SimulationConfig, today time.Time) *NewOrder
}

// singleOutstandingPolicy orders only when nothing is in transit.
type singleOutstandingPolicy struct{}

func (singleOutstandingPolicy) Evaluate(stockEnd float64, book *OrderBook, cfg SimulationConfig, today time.Time) *NewOrder {
	if book.Outstanding() > 0 || stockEnd >= cfg.ReorderThreshold {
		return nil
	}
	return &NewOrder{
		Quantity:     OrderQuantity(stockEnd, cfg),
		DeliveryDate: DeliveryDate(today, cfg),
	}
}

// multipleOutstandingPolicy orders on the inventory position, so in-transit
// quantity counts toward the gap.
type multipleOutstandingPolicy struct{}

func (multipleOutstandingPolicy) Evaluate(stockEnd float64, book *OrderBook, cfg SimulationConfig, today time.Time) *NewOrder {
	position := stockEnd + float64(book.OutstandingQuantity())
	if position >= cfg.ReorderThreshold {
		return nil
	}
	return &NewOrder{
		Quantity:     OrderQuantity(position, cfg),
		DeliveryDate: DeliveryDate(today, cfg),
	}
}

// NewReplenishmentPolicy creates a policy by name. Valid names are listed in
// validOutstandingPolicies (config.go); empty selects single-outstanding.
// Panics on unrecognized names; Validate() rejects them first.
func NewReplenishmentPolicy(name OutstandingPolicy) ReplenishmentPolicy {
	if !validOutstandingPolicies[name] {
		panic(fmt.Sprintf("unknown outstanding policy %q", name))
	}
	switch name {
	case "", SingleOutstanding:
		return singleOutstandingPolicy{}
	case MultipleOutstanding:
		return multipleOutstandingPolicy{}
	default:
		panic(fmt.Sprintf("unhandled outstanding policy %q", name))
	}
}

// orderEpsilon absorbs accumulated float noise in max_stock - position before rounding up.
const orderEpsilon = 1e-9

// OrderQuantity fills up to max_stock from position, clamps to
// [min_order_quantity, max_order_quantity] and rounds up to a lot multiple.
// If rounding up overshoots the maximum, the largest lot multiple below it is used.
func OrderQuantity(position float64, cfg SimulationConfig) int {
	desired := int(math.Ceil(cfg.MaxStock - position - orderEpsilon))
	q := max(cfg.MinOrderQuantity, min(desired, cfg.MaxOrderQuantity))
	lot := cfg.LotSize
	q = (q + lot - 1) / lot * lot
	if q > cfg.MaxOrderQuantity {
		q = cfg.MaxOrderQuantity / lot * lot
	}
	return q
}

// DeliveryDate returns when an order placed at close of business on today arrives.
// A lead time of 0 reaches the next opening, the same as a lead time of 1.
func DeliveryDate(today time.Time, cfg SimulationConfig) time.Time {
	if cfg.LeadTimeMode == WorkingDays {
		return AddWorkingDays(today, cfg.DeliveryLeadTimeDays)
	}
	return today.AddDate(0, 0, max(cfg.DeliveryLeadTimeDays, 1))
}
