package sim

import (
	"math"
	"time"
)

// OutstandingPolicy selects how many replenishment orders may be open at once.
type OutstandingPolicy string

const (
	// SingleOutstanding allows at most one undelivered order (default).
	SingleOutstanding OutstandingPolicy = "single-outstanding"
	// MultipleOutstanding orders whenever the inventory position
	// (stock on hand + undelivered quantity) is below the reorder threshold.
	MultipleOutstanding OutstandingPolicy = "multiple-outstanding"
)

// OverflowPolicy selects what happens to a delivery that would push stock above max_stock.
type OverflowPolicy string

const (
	OverflowClamp OverflowPolicy = "clamp"          // credit up to max_stock, discard the rest (default)
	OverflowDefer OverflowPolicy = "defer"          // postpone the whole delivery by a day
	OverflowAllow OverflowPolicy = "allow-overflow" // credit everything
)

// LeadTimeMode selects how delivery_lead_time_days is counted.
type LeadTimeMode string

const (
	CalendarDays LeadTimeMode = "calendar-days" // default
	WorkingDays  LeadTimeMode = "working-days"
)

// DefaultStartDate anchors the calendar when start_date is empty, so that results
// never depend on the wall clock.
const DefaultStartDate = "2024-01-01"

// validOutstandingPolicies is the set of recognized outstanding-order policy names.
// Shared by Validate() and NewReplenishmentPolicy() to avoid duplication.
var validOutstandingPolicies = map[OutstandingPolicy]bool{"": true, SingleOutstanding: true, MultipleOutstanding: true}

// validOverflowPolicies is the set of recognized overflow policy names.
var validOverflowPolicies = map[OverflowPolicy]bool{"": true, OverflowClamp: true, OverflowDefer: true, OverflowAllow: true}

// validLeadTimeModes is the set of recognized lead time modes.
var validLeadTimeModes = map[LeadTimeMode]bool{"": true, CalendarDays: true, WorkingDays: true}

// IsValidOutstandingPolicy returns true if name is a recognized outstanding-order policy.
func IsValidOutstandingPolicy(name string) bool { return validOutstandingPolicies[OutstandingPolicy(name)] }

// IsValidOverflowPolicy returns true if name is a recognized overflow policy.
func IsValidOverflowPolicy(name string) bool { return validOverflowPolicies[OverflowPolicy(name)] }

// IsValidLeadTimeMode returns true if name is a recognized lead time mode.
func IsValidLeadTimeMode(name string) bool { return validLeadTimeModes[LeadTimeMode(name)] }

// SimulationConfig is the immutable input of one simulation run.
// Empty policy fields select the defaults (single-outstanding, clamp, calendar-days).
type SimulationConfig struct {
	DailyConsumption     float64  `yaml:"daily_consumption" json:"daily_consumption"`                                       // units per working day (> 0)
	InitialStock         float64  `yaml:"initial_stock" json:"initial_stock"`                                               // opening balance (>= 0)
	ReorderThreshold     float64  `yaml:"reorder_threshold" json:"reorder_threshold"`                                       // 0 <= threshold <= max_stock
	MaxStock             float64  `yaml:"max_stock" json:"max_stock"`                                                       // capacity ceiling
	MinOrderQuantity     int      `yaml:"min_order_quantity" json:"min_order_quantity"`                                     // > 0, multiple of lot_size
	MaxOrderQuantity     int      `yaml:"max_order_quantity" json:"max_order_quantity"`                                     // >= min_order_quantity
	LotSize              int      `yaml:"lot_size" json:"lot_size"`                                                         // order granularity (> 0)
	DeliveryLeadTimeDays int      `yaml:"delivery_lead_time_days" json:"delivery_lead_time_days"`                           // >= 0
	SimulationDays       int      `yaml:"simulation_days" json:"simulation_days"`                                           // horizon (> 0)
	MinStockToStartSales *float64 `yaml:"min_stock_to_start_sales,omitempty" json:"min_stock_to_start_sales,omitempty"`     // only used when initial_stock == 0
	StartDate            string   `yaml:"start_date,omitempty" json:"start_date,omitempty"`                                 // YYYY-MM-DD

	OutstandingPolicy OutstandingPolicy `yaml:"outstanding_policy,omitempty" json:"outstanding_policy,omitempty"`
	OverflowPolicy    OverflowPolicy    `yaml:"overflow_policy,omitempty" json:"overflow_policy,omitempty"`
	LeadTimeMode      LeadTimeMode      `yaml:"lead_time_mode,omitempty" json:"lead_time_mode,omitempty"`
}

// DefaultConfig returns the reference configuration: a 45-unit shelf refilled in
// lots of 2, ramping up from an empty stock until 36 units are on hand.
func DefaultConfig() SimulationConfig {
	minStart := 36.0
	return SimulationConfig{
		DailyConsumption:     2.13,
		InitialStock:         0,
		ReorderThreshold:     36,
		MaxStock:             45,
		MinOrderQuantity:     2,
		MaxOrderQuantity:     10,
		LotSize:              2,
		DeliveryLeadTimeDays: 3,
		SimulationDays:       60,
		MinStockToStartSales: &minStart,
		StartDate:            DefaultStartDate,
	}
}

// Validate checks ordering constraints and field ranges.
// The returned error, when non-nil, is always a *ConfigValidationError.
func (c SimulationConfig) Validate() error {
	if !isFinite(c.DailyConsumption) || c.DailyConsumption <= 0 {
		return invalid("daily_consumption", "must be positive, got %v", c.DailyConsumption)
	}
	if !isFinite(c.InitialStock) || c.InitialStock < 0 {
		return invalid("initial_stock", "must be non-negative, got %v", c.InitialStock)
	}
	if !isFinite(c.MaxStock) || c.MaxStock <= 0 {
		return invalid("max_stock", "must be positive, got %v", c.MaxStock)
	}
	if !isFinite(c.ReorderThreshold) || c.ReorderThreshold < 0 {
		return invalid("reorder_threshold", "must be non-negative, got %v", c.ReorderThreshold)
	}
	if c.ReorderThreshold > c.MaxStock {
		return invalid("reorder_threshold", "must not exceed max_stock (%v > %v)", c.ReorderThreshold, c.MaxStock)
	}
	if c.LotSize <= 0 {
		return invalid("lot_size", "must be positive, got %d", c.LotSize)
	}
	if c.MinOrderQuantity <= 0 {
		return invalid("min_order_quantity", "must be positive, got %d", c.MinOrderQuantity)
	}
	if c.MinOrderQuantity%c.LotSize != 0 {
		return invalid("min_order_quantity", "must be a multiple of lot_size (%d is not a multiple of %d)", c.MinOrderQuantity, c.LotSize)
	}
	if c.MaxOrderQuantity < c.MinOrderQuantity {
		return invalid("max_order_quantity", "must be greater than or equal to min_order_quantity (%d < %d)", c.MaxOrderQuantity, c.MinOrderQuantity)
	}
	if c.DeliveryLeadTimeDays < 0 {
		return invalid("delivery_lead_time_days", "must be non-negative, got %d", c.DeliveryLeadTimeDays)
	}
	if c.SimulationDays <= 0 {
		return invalid("simulation_days", "must be positive, got %d", c.SimulationDays)
	}
	if c.MinStockToStartSales != nil && (!isFinite(*c.MinStockToStartSales) || *c.MinStockToStartSales < 0) {
		return invalid("min_stock_to_start_sales", "must be non-negative, got %v", *c.MinStockToStartSales)
	}
	// under clamp and defer the shelf never holds more than max_stock, so sales would never start
	if c.SalesGated() && c.OverflowPolicy != OverflowAllow && *c.MinStockToStartSales > c.MaxStock {
		return invalid("min_stock_to_start_sales", "must not exceed max_stock (%v > %v)", *c.MinStockToStartSales, c.MaxStock)
	}
	if c.StartDate != "" {
		if _, err := ParseDate(c.StartDate); err != nil {
			return invalid("start_date", "expected YYYY-MM-DD, got %q", c.StartDate)
		}
	}
	if !validOutstandingPolicies[c.OutstandingPolicy] {
		return invalid("outstanding_policy", "unknown policy %q; valid: single-outstanding, multiple-outstanding", c.OutstandingPolicy)
	}
	if !validOverflowPolicies[c.OverflowPolicy] {
		return invalid("overflow_policy", "unknown policy %q; valid: clamp, defer, allow-overflow", c.OverflowPolicy)
	}
	if !validLeadTimeModes[c.LeadTimeMode] {
		return invalid("lead_time_mode", "unknown mode %q; valid: calendar-days, working-days", c.LeadTimeMode)
	}
	return nil
}

// Normalized returns a copy with empty policy fields and start date replaced by their defaults.
func (c SimulationConfig) Normalized() SimulationConfig {
	if c.OutstandingPolicy == "" {
		c.OutstandingPolicy = SingleOutstanding
	}
	if c.OverflowPolicy == "" {
		c.OverflowPolicy = OverflowClamp
	}
	if c.LeadTimeMode == "" {
		c.LeadTimeMode = CalendarDays
	}
	if c.StartDate == "" {
		c.StartDate = DefaultStartDate
	}
	return c
}

// Start returns the calendar anchor of the run. Call only on a validated config.
func (c SimulationConfig) Start() time.Time {
	if c.StartDate == "" {
		d, _ := ParseDate(DefaultStartDate)
		return d
	}
	d, _ := ParseDate(c.StartDate)
	return d
}

// SalesGated reports whether the run starts with an initial procurement phase
// during which nothing is sold.
func (c SimulationConfig) SalesGated() bool {
	return c.InitialStock == 0 && c.MinStockToStartSales != nil
}

// WithDailyConsumption returns a copy with daily_consumption replaced.
func (c SimulationConfig) WithDailyConsumption(v float64) SimulationConfig {
	c.DailyConsumption = v
	return c
}

// WithMaxOrderQuantity returns a copy with max_order_quantity replaced.
func (c SimulationConfig) WithMaxOrderQuantity(v int) SimulationConfig {
	c.MaxOrderQuantity = v
	return c
}

// WithSimulationDays returns a copy with simulation_days replaced.
func (c SimulationConfig) WithSimulationDays(v int) SimulationConfig {
	c.SimulationDays = v
	return c
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
