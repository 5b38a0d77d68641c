// sim/simulator.go
package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SimulationResult is the full output of one run.
type SimulationResult struct {
	Config       SimulationConfig     `json:"config"`
	Events       []SimulationEvent    `json:"events"`
	Orders       []Order              `json:"orders"`
	DailyDetails []DailyDetail        `json:"daily_details"`
	Statistics   SimulationStatistics `json:"statistics"`
}

// Simulator holds the day clock, stock on hand and the order book of one run.
// It is a single-threaded fold over days: no I/O, no randomness, no wall clock.
type Simulator struct {
	Config SimulationConfig
	// Clock is the calendar day about to be processed
	Clock time.Time
	// Day counts processed days (0 before the first Step)
	Day    int
	Stock  float64
	Book   *OrderBook
	Policy ReplenishmentPolicy
	// Events is the append-only log, chronological with same-day rank order
	Events  []SimulationEvent
	Details []DailyDetail

	salesStarted bool
	prevStockEnd float64
}

// NewSimulator validates cfg and prepares a run. Empty policy fields get their defaults.
func NewSimulator(cfg SimulationConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalized()
	return &Simulator{
		Config:       cfg,
		Clock:        cfg.Start(),
		Stock:        cfg.InitialStock,
		Book:         NewOrderBook(),
		Policy:       NewReplenishmentPolicy(cfg.OutstandingPolicy),
		Events:       make([]SimulationEvent, 0, cfg.SimulationDays*2),
		Details:      make([]DailyDetail, 0, cfg.SimulationDays),
		salesStarted: !cfg.SalesGated(),
		prevStockEnd: cfg.InitialStock,
	}, nil
}

// Simulate runs cfg over its full horizon.
// A malformed config yields a *ConfigValidationError and no result.
func Simulate(cfg SimulationConfig) (*SimulationResult, error) {
	s, err := NewSimulator(cfg)
	if err != nil {
		return nil, err
	}
	return s.Run()
}

// Run processes every remaining day of the horizon and assembles the result.
func (s *Simulator) Run() (*SimulationResult, error) {
	logrus.Infof("Starting simulation: %d days from %s, consumption=%.2f/day, threshold=%.2f, max_stock=%.2f",
		s.Config.SimulationDays, FormatDate(s.Clock), s.Config.DailyConsumption, s.Config.ReorderThreshold, s.Config.MaxStock)
	for s.Day < s.Config.SimulationDays {
		if err := s.Step(); err != nil {
			return nil, err
		}
	}
	if !s.Book.checkIDs() {
		return nil, &ComputationError{Day: s.Day, Detail: "order ids are not strictly increasing"}
	}
	stats := ComputeStatistics(s.Details, len(s.Events))
	logrus.Infof("Simulation ended: final_stock=%.2f stockouts=%d orders=%d", stats.FinalStock, stats.StockoutsCount, stats.TotalOrders)
	return &SimulationResult{
		Config:       s.Config,
		Events:       s.Events,
		Orders:       s.Book.Orders(),
		DailyDetails: s.Details,
		Statistics:   stats,
	}, nil
}

// Step processes one day:
//  1. credit due deliveries to the opening balance (overflow policy applies)
//  2. determine consumption (0 on the non-working day and before sales start)
//  3. close the day, flagging and clamping a stockout
//  4. flag a reorder threshold crossing relative to yesterday's close
//  5. let the replenishment policy place an order at close of business
//  6. append the ledger row and the day's events
func (s *Simulator) Step() error {
	cfg := s.Config
	today := s.Clock
	working := IsWorkingDay(today)
	detail := DailyDetail{
		Date:         NewDate(today),
		DayOfWeek:    DayOfWeek(today),
		IsWorkingDay: working,
	}

	// 1. deliveries
	for _, o := range s.Book.Due(today) {
		before := s.Stock
		credited := float64(o.Quantity)
		overflow := 0.0
		switch cfg.OverflowPolicy {
		case OverflowDefer:
			// an empty shelf takes the delivery even if it alone exceeds capacity; it is clamped
			if s.Stock+credited > cfg.MaxStock && s.Stock > 0 {
				s.Book.Defer(o)
				logrus.Debugf("[day %03d] delivery #%d deferred to %s", s.Day+1, o.OrderID, o.DeliveryDate)
				continue
			}
			fallthrough
		case OverflowClamp:
			if room := max(cfg.MaxStock-s.Stock, 0); credited > room {
				overflow = credited - room
				credited = room
			}
		}
		s.Stock += credited
		s.Book.MarkDelivered(o, today)
		detail.Deliveries += credited
		detail.Overflow += overflow
		detail.DeliveryIDs = append(detail.DeliveryIDs, o.OrderID)
		s.Events = append(s.Events, SimulationEvent{
			Date:         NewDate(today),
			EventType:    EventDelivery,
			StockBefore:  before,
			StockAfter:   s.Stock,
			Quantity:     float64(o.Quantity),
			IsWorkingDay: working,
			OrderID:      intPtr(o.OrderID),
		})
	}
	stockStart := s.Stock

	// 2. consumption
	if !s.salesStarted && stockStart >= *cfg.MinStockToStartSales {
		s.salesStarted = true
		logrus.Debugf("[day %03d] sales started with %.2f units on hand", s.Day+1, stockStart)
	}
	consumption := 0.0
	if s.salesStarted && working {
		consumption = cfg.DailyConsumption
	}

	// 3. close the day
	rawEnd := stockStart - consumption
	stockout := s.salesStarted && rawEnd <= 0
	stockEnd := max(rawEnd, 0)

	// 4. threshold crossing
	crossed := s.prevStockEnd >= cfg.ReorderThreshold && stockEnd < cfg.ReorderThreshold

	s.Events = append(s.Events, SimulationEvent{
		Date:         NewDate(today),
		EventType:    EventConsumption,
		StockBefore:  stockStart,
		StockAfter:   stockEnd,
		Quantity:     consumption,
		IsWorkingDay: working,
	})

	// 5. replenishment
	if n := s.Policy.Evaluate(stockEnd, s.Book, cfg, today); n != nil {
		o := s.Book.Place(today, *n)
		detail.OrdersPlaced = 1
		detail.OrderQuantity = o.Quantity
		detail.OrderID = intPtr(o.OrderID)
		s.Events = append(s.Events, SimulationEvent{
			Date:         NewDate(today),
			EventType:    EventOrder,
			StockBefore:  stockEnd,
			StockAfter:   stockEnd,
			Quantity:     float64(o.Quantity),
			IsWorkingDay: working,
			OrderID:      intPtr(o.OrderID),
		})
		logrus.Debugf("[day %03d] order #%d of %d units, delivery %s", s.Day+1, o.OrderID, o.Quantity, o.DeliveryDate)
	}

	if crossed {
		s.Events = append(s.Events, SimulationEvent{
			Date:         NewDate(today),
			EventType:    EventThresholdCrossed,
			StockBefore:  s.prevStockEnd,
			StockAfter:   stockEnd,
			Quantity:     consumption,
			IsWorkingDay: working,
		})
	}
	switch {
	case stockout:
		s.Events = append(s.Events, SimulationEvent{
			Date:         NewDate(today),
			EventType:    EventLowStockWarning,
			StockBefore:  stockStart,
			StockAfter:   stockEnd,
			Quantity:     consumption,
			IsWorkingDay: working,
			Reason:       ReasonStockout,
		})
	case !s.salesStarted:
		s.Events = append(s.Events, SimulationEvent{
			Date:         NewDate(today),
			EventType:    EventLowStockWarning,
			StockBefore:  stockStart,
			StockAfter:   stockEnd,
			IsWorkingDay: working,
			Reason:       ReasonAwaitingSalesStart,
		})
	}

	// 6. ledger
	detail.SalesActive = s.salesStarted
	detail.StockStart = stockStart
	detail.Consumption = consumption
	detail.StockEnd = stockEnd
	detail.HasThresholdCrossed = crossed
	detail.HasStockout = stockout
	s.Details = append(s.Details, detail)
	logrus.Debugf("[day %03d] %s start=%.2f in=%.2f out=%.2f end=%.2f", s.Day+1, detail.Date, stockStart, detail.Deliveries, consumption, stockEnd)

	s.Stock = stockEnd
	s.prevStockEnd = stockEnd
	s.Day++
	s.Clock = today.AddDate(0, 0, 1)
	if s.Stock < 0 {
		return &ComputationError{Day: s.Day, Detail: "negative stock carried to the next day"}
	}
	return nil
}
