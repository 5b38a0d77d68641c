package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBook_PlaceAssignsSequentialIDs(t *testing.T) {
	b := NewOrderBook()
	day := mustDate(t, "2024-01-01")
	o1 := b.Place(day, NewOrder{Quantity: 4, DeliveryDate: day.AddDate(0, 0, 3)})
	o2 := b.Place(day, NewOrder{Quantity: 6, DeliveryDate: day.AddDate(0, 0, 2)})
	assert.Equal(t, 1, o1.OrderID)
	assert.Equal(t, 2, o2.OrderID)
	assert.Equal(t, 2, b.Outstanding())
	assert.Equal(t, 10, b.OutstandingQuantity())
	assert.True(t, b.checkIDs())
}

func TestOrderBook_DueListsOrdersOnOrBeforeDateInIDOrder(t *testing.T) {
	// GIVEN two orders, the later id due first
	b := NewOrderBook()
	day := mustDate(t, "2024-01-01")
	b.Place(day, NewOrder{Quantity: 4, DeliveryDate: day.AddDate(0, 0, 3)})
	b.Place(day, NewOrder{Quantity: 6, DeliveryDate: day.AddDate(0, 0, 2)})

	// THEN only the second is due on day 3, and both on day 4 in id order
	due := b.Due(day.AddDate(0, 0, 2))
	require.Len(t, due, 1)
	assert.Equal(t, 2, due[0].OrderID)

	due = b.Due(day.AddDate(0, 0, 3))
	require.Len(t, due, 2)
	assert.Equal(t, 1, due[0].OrderID)
	assert.Equal(t, 2, due[1].OrderID)
}

func TestOrderBook_MarkDeliveredAndDefer(t *testing.T) {
	b := NewOrderBook()
	day := mustDate(t, "2024-01-01")
	o := b.Place(day, NewOrder{Quantity: 4, DeliveryDate: day.AddDate(0, 0, 1)})

	// WHEN the order is deferred once
	b.Defer(o)

	// THEN it is not due on its original date
	assert.Empty(t, b.Due(day.AddDate(0, 0, 1)))
	assert.Equal(t, 1, o.DeferredDays)
	assert.Equal(t, "2024-01-03", o.DeliveryDate.String())

	// WHEN delivered
	b.MarkDelivered(o, day.AddDate(0, 0, 2))

	// THEN nothing is outstanding and the snapshot reflects it
	assert.Zero(t, b.Outstanding())
	assert.Empty(t, b.Due(day.AddDate(0, 0, 10)))
	orders := b.Orders()
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Delivered)
}

func TestOrderBook_OrdersReturnsCopies(t *testing.T) {
	b := NewOrderBook()
	day := mustDate(t, "2024-01-01")
	b.Place(day, NewOrder{Quantity: 4, DeliveryDate: day})
	snapshot := b.Orders()
	snapshot[0].Quantity = 99
	assert.Equal(t, 4, b.Orders()[0].Quantity)
}
