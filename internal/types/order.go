package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind distinguishes order kinds. Only limit orders are supported;
// the closed set keeps the crossing test and level selection exhaustive.
type OrderKind string

const (
	LimitOrder OrderKind = "LIMIT"
)

// SideType is the side of the book an order belongs to
type SideType string

const (
	Buy  SideType = "BUY"
	Sell SideType = "SELL"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPending         OrderStatus = "PENDING"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// AveragePriceScale is the fixed fractional precision for average fill prices
const AveragePriceScale = 4

// Order holds the identity and mutable matching state of a single order.
// While resting, the book's entry is the only mutable instance; everything
// handed to callers or stores is a Clone.
type Order struct {
	OrderID        string          `json:"order_id"`
	Symbol         string          `json:"symbol"`
	Side           SideType        `json:"side"`
	Kind           OrderKind       `json:"kind"`
	Price          decimal.Decimal `json:"price"`
	Quantity       decimal.Decimal `json:"quantity"`
	FilledQuantity decimal.Decimal `json:"filled_quantity"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	Status         OrderStatus     `json:"status"`
	TraderID       string          `json:"trader_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewOrder creates a pending order with zeroed fill state
func NewOrder(orderID, symbol string, side SideType, kind OrderKind, price, quantity decimal.Decimal, traderID string) *Order {
	now := time.Now().UTC()
	return &Order{
		OrderID:        orderID,
		Symbol:         symbol,
		Side:           side,
		Kind:           kind,
		Price:          price,
		Quantity:       quantity,
		FilledQuantity: decimal.Zero,
		AveragePrice:   decimal.Zero,
		Status:         StatusPending,
		TraderID:       traderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// RemainingQuantity returns the unfilled portion of the order
func (o *Order) RemainingQuantity() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// IsTerminal reports whether the order is in a state that admits no further transitions
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusFilled, StatusCancelled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// ApplyFill records a fill of the given quantity at the given price.
// The average price is the quantity-weighted mean over all fills, rounded
// half-up to AveragePriceScale digits; the weight is the filled quantity
// prior to this fill, which is a defined zero before the first fill.
func (o *Order) ApplyFill(quantity, price decimal.Decimal) {
	prevFilled := o.FilledQuantity
	newFilled := prevFilled.Add(quantity)

	notional := o.AveragePrice.Mul(prevFilled).Add(quantity.Mul(price))
	if newFilled.IsPositive() {
		o.AveragePrice = notional.DivRound(newFilled, AveragePriceScale)
	}

	o.FilledQuantity = newFilled
	o.refreshStatus()
	o.UpdatedAt = time.Now().UTC()
}

// refreshStatus recomputes the fill-derived status. Terminal statuses other
// than FILLED are set explicitly elsewhere and never overridden here.
func (o *Order) refreshStatus() {
	switch {
	case o.FilledQuantity.GreaterThanOrEqual(o.Quantity):
		o.Status = StatusFilled
	case o.FilledQuantity.IsPositive():
		o.Status = StatusPartiallyFilled
	default:
		o.Status = StatusPending
	}
}

// Clone returns an independent copy of the order
func (o *Order) Clone() *Order {
	c := *o
	return &c
}
