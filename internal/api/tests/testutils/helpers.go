package testutils

import (
	"github.com/shopspring/decimal"

	"github.com/finvediclabs/trading-engine/internal/api/models"
)

// OrderRequest builders for common test cases

// NewLimitBuyOrder creates a limit buy order request
func NewLimitBuyOrder(symbol, traderID, price, quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		Symbol:   symbol,
		Side:     "buy",
		Kind:     "limit",
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(quantity),
		TraderID: traderID,
	}
}

// NewLimitSellOrder creates a limit sell order request
func NewLimitSellOrder(symbol, traderID, price, quantity string) models.SubmitOrderRequest {
	return models.SubmitOrderRequest{
		Symbol:   symbol,
		Side:     "sell",
		Kind:     "limit",
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(quantity),
		TraderID: traderID,
	}
}

// D parses a decimal literal for assertions
func D(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
