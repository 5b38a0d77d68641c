package sim

// EventType is the closed set of simulation event kinds.
type EventType string

const (
	EventConsumption      EventType = "consumption"
	EventOrder            EventType = "order"
	EventDelivery         EventType = "delivery"
	EventThresholdCrossed EventType = "threshold_crossed"
	EventLowStockWarning  EventType = "low_stock_warning"
)

// eventRank orders events that share a date: delivery, consumption, order,
// then threshold and stockout flags. Unknown types sort last.
var eventRank = map[EventType]int{
	EventDelivery:         0,
	EventConsumption:      1,
	EventOrder:            2,
	EventThresholdCrossed: 3,
	EventLowStockWarning:  4,
}

// EventRank returns the same-day ordering rank of t.
func EventRank(t EventType) int {
	if r, ok := eventRank[t]; ok {
		return r
	}
	return len(eventRank)
}

// EventReason qualifies a low_stock_warning event.
type EventReason string

const (
	ReasonStockout           EventReason = "stockout"
	ReasonAwaitingSalesStart EventReason = "awaiting_sales_start"
)

// SimulationEvent is an append-only log entry; never mutated after creation.
type SimulationEvent struct {
	Date         Date        `json:"date"`
	EventType    EventType   `json:"event_type"`
	StockBefore  float64     `json:"stock_before"`
	StockAfter   float64     `json:"stock_after"`
	Quantity     float64     `json:"quantity"`
	IsWorkingDay bool        `json:"is_working_day"`
	OrderID      *int        `json:"order_id,omitempty"`
	Reason       EventReason `json:"reason,omitempty"`
}

// DailyDetail is one row of the daily ledger.
// StockStart is the opening balance after deliveries; StockEnd is the carried
// balance after consumption, clamped at 0.
type DailyDetail struct {
	Date                Date    `json:"date"`
	DayOfWeek           string  `json:"day_of_week"`
	IsWorkingDay        bool    `json:"is_working_day"`
	SalesActive         bool    `json:"sales_active"`
	StockStart          float64 `json:"stock_start"`
	Deliveries          float64 `json:"deliveries"`
	Overflow            float64 `json:"overflow"`
	Consumption         float64 `json:"consumption"`
	StockEnd            float64 `json:"stock_end"`
	OrdersPlaced        int     `json:"orders_placed"`
	OrderQuantity       int     `json:"order_quantity"`
	OrderID             *int    `json:"order_id,omitempty"`
	DeliveryIDs         []int   `json:"delivery_ids,omitempty"` // one per delivery credited that day
	HasThresholdCrossed bool    `json:"has_threshold_crossed"`
	HasStockout         bool    `json:"has_stockout"`
}

func intPtr(v int) *int {
	return &v
}
