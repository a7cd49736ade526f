package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseResponse is the base structure for all API responses
type BaseResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

// TradeDTO represents a trade in API responses
type TradeDTO struct {
	TradeID      string          `json:"trade_id"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	BuyOrderID   string          `json:"buy_order_id"`
	SellOrderID  string          `json:"sell_order_id"`
	BuyTraderID  string          `json:"buy_trader_id"`
	SellTraderID string          `json:"sell_trader_id"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Timestamp    time.Time       `json:"timestamp"`
}

// OrderDTO represents an order in API responses
type OrderDTO struct {
	OrderID           string          `json:"order_id"`
	Symbol            string          `json:"symbol"`
	Side              string          `json:"side"`
	Kind              string          `json:"kind"`
	Price             decimal.Decimal `json:"price"`
	Quantity          decimal.Decimal `json:"quantity"`
	FilledQuantity    decimal.Decimal `json:"filled_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	AveragePrice      decimal.Decimal `json:"average_price"`
	Status            string          `json:"status"`
	TraderID          string          `json:"trader_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SubmitOrderResponse represents the response for order submission
type SubmitOrderResponse struct {
	BaseResponse
	Order  *OrderDTO  `json:"order,omitempty"`
	Trades []TradeDTO `json:"trades,omitempty"`
}

// CancelOrderResponse represents the response for order cancellation
type CancelOrderResponse struct {
	BaseResponse
	Order *OrderDTO `json:"order,omitempty"`
}

// GetOrderResponse represents the response for getting a single order
type GetOrderResponse struct {
	BaseResponse
	Order *OrderDTO `json:"order,omitempty"`
}

// GetOrdersResponse represents the response for getting multiple orders
type GetOrdersResponse struct {
	BaseResponse
	Orders []OrderDTO `json:"orders"`
	Count  int        `json:"count"`
}

// PriceLevelDTO represents one aggregated price level in the order book
type PriceLevelDTO struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

// OrderBookResponse represents one symbol's order book snapshot
type OrderBookResponse struct {
	BaseResponse
	Symbol  string           `json:"symbol"`
	BestBid *decimal.Decimal `json:"best_bid,omitempty"`
	BestAsk *decimal.Decimal `json:"best_ask,omitempty"`
	Bids    []PriceLevelDTO  `json:"bids"`
	Asks    []PriceLevelDTO  `json:"asks"`
}

// BestQuote represents the best bid or ask
type BestQuote struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TopOfBookResponse represents the best bid and ask for a symbol
type TopOfBookResponse struct {
	BaseResponse
	Symbol  string     `json:"symbol"`
	BestBid *BestQuote `json:"best_bid,omitempty"`
	BestAsk *BestQuote `json:"best_ask,omitempty"`
}

// ListSymbolsResponse represents the known symbols
type ListSymbolsResponse struct {
	BaseResponse
	Symbols []string `json:"symbols"`
	Count   int      `json:"count"`
}

// GetTradesResponse represents the response for getting trades
type GetTradesResponse struct {
	BaseResponse
	Trades []TradeDTO `json:"trades"`
	Count  int        `json:"count"`
}

// GetTradeResponse represents the response for getting a single trade
type GetTradeResponse struct {
	BaseResponse
	Trade *TradeDTO `json:"trade,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Version       string    `json:"version"`
}
