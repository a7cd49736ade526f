package matching

import (
	"github.com/shopspring/decimal"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// PriceLevel is a FIFO queue of resting orders at one exact price.
// Arrival order is preserved across removals so price-time priority holds
// even when an order deeper in the queue is cancelled.
type PriceLevel struct {
	price  decimal.Decimal
	orders []*types.Order
}

// NewPriceLevel creates an empty level at the given price
func NewPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{price: price}
}

// Price returns the level's price
func (pl *PriceLevel) Price() decimal.Decimal {
	return pl.price
}

// Append adds an order to the back of the queue
func (pl *PriceLevel) Append(order *types.Order) {
	pl.orders = append(pl.orders, order)
}

// Remove deletes the order with the given ID, preserving the order of the
// remaining queue. Returns false if the order is not at this level.
// Linear in level depth, which is expected to stay shallow.
func (pl *PriceLevel) Remove(orderID string) bool {
	for i, order := range pl.orders {
		if order.OrderID == orderID {
			pl.orders = append(pl.orders[:i], pl.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Front returns the earliest-arrived order, or nil if the level is empty
func (pl *PriceLevel) Front() *types.Order {
	if len(pl.orders) == 0 {
		return nil
	}
	return pl.orders[0]
}

// IsEmpty reports whether the level holds no orders
func (pl *PriceLevel) IsEmpty() bool {
	return len(pl.orders) == 0
}

// Len returns the number of resting orders at this level
func (pl *PriceLevel) Len() int {
	return len(pl.orders)
}

// TotalQuantity sums the remaining quantity of every order at this level
func (pl *PriceLevel) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, order := range pl.orders {
		total = total.Add(order.RemainingQuantity())
	}
	return total
}

// Orders returns the queue in arrival order. The slice is a copy; the
// order pointers are the live book entries.
func (pl *PriceLevel) Orders() []*types.Order {
	out := make([]*types.Order, len(pl.orders))
	copy(out, pl.orders)
	return out
}
