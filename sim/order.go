package sim

import "time"

// Order is a replenishment order from placement to delivery.
// Created by the ReplenishmentPolicy via OrderBook.Place; Delivered flips exactly once.
type Order struct {
	OrderID      int  `json:"order_id"`
	OrderDate    Date `json:"order_date"`
	DeliveryDate Date `json:"delivery_date"` // actual arrival date once delivered
	Quantity     int  `json:"quantity"`
	Delivered    bool `json:"delivered"`
	DeferredDays int  `json:"deferred_days,omitempty"` // days postponed by the defer overflow policy
}

// NewOrder is a policy decision that has not been booked yet.
type NewOrder struct {
	Quantity     int
	DeliveryDate time.Time
}

// OrderBook tracks outstanding and delivered orders and assigns order ids.
// Not thread-safe: owned by a single Simulator.
type OrderBook struct {
	orders []*Order // in id order
	nextID int
}

// NewOrderBook creates an empty book whose first order id is 1.
func NewOrderBook() *OrderBook {
	return &OrderBook{nextID: 1}
}

// Place books a new order and returns it with the next sequential id.
func (b *OrderBook) Place(orderDate time.Time, n NewOrder) *Order {
	o := &Order{
		OrderID:      b.nextID,
		OrderDate:    NewDate(orderDate),
		DeliveryDate: NewDate(n.DeliveryDate),
		Quantity:     n.Quantity,
	}
	b.nextID++
	b.orders = append(b.orders, o)
	return o
}

// Due returns the undelivered orders scheduled on or before date, in id order.
func (b *OrderBook) Due(date time.Time) []*Order {
	var due []*Order
	for _, o := range b.orders {
		if !o.Delivered && !o.DeliveryDate.After(date) {
			due = append(due, o)
		}
	}
	return due
}

// MarkDelivered flips the order to delivered and pins its delivery date to date.
func (b *OrderBook) MarkDelivered(o *Order, date time.Time) {
	o.Delivered = true
	o.DeliveryDate = NewDate(date)
}

// Defer postpones an undelivered order by one day.
func (b *OrderBook) Defer(o *Order) {
	o.DeliveryDate = NewDate(o.DeliveryDate.AddDate(0, 0, 1))
	o.DeferredDays++
}

// Outstanding returns the number of undelivered orders.
func (b *OrderBook) Outstanding() int {
	n := 0
	for _, o := range b.orders {
		if !o.Delivered {
			n++
		}
	}
	return n
}

// OutstandingQuantity returns the total undelivered quantity.
func (b *OrderBook) OutstandingQuantity() int {
	q := 0
	for _, o := range b.orders {
		if !o.Delivered {
			q += o.Quantity
		}
	}
	return q
}

// Orders returns a copy of every booked order in id order.
func (b *OrderBook) Orders() []Order {
	out := make([]Order, len(b.orders))
	for i, o := range b.orders {
		out[i] = *o
	}
	return out
}

// checkIDs verifies ids are strictly increasing. A failure is a ComputationError.
func (b *OrderBook) checkIDs() bool {
	for i := 1; i < len(b.orders); i++ {
		if b.orders[i].OrderID <= b.orders[i-1].OrderID {
			return false
		}
	}
	return true
}
