package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is the immutable record of one matched pair. The price is always
// the resting order's price (price-maker convention).
type Trade struct {
	TradeID      string          `json:"trade_id"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	BuyOrderID   string          `json:"buy_order_id"`
	SellOrderID  string          `json:"sell_order_id"`
	BuyTraderID  string          `json:"buy_trader_id"`
	SellTraderID string          `json:"sell_trader_id"`
	Timestamp    time.Time       `json:"timestamp"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// NewTrade builds a trade between a buy and a sell order for the given
// quantity at the given execution price
func NewTrade(tradeID string, buy, sell *Order, quantity, price decimal.Decimal) *Trade {
	return &Trade{
		TradeID:      tradeID,
		Symbol:       buy.Symbol,
		Quantity:     quantity,
		Price:        price,
		BuyOrderID:   buy.OrderID,
		SellOrderID:  sell.OrderID,
		BuyTraderID:  buy.TraderID,
		SellTraderID: sell.TraderID,
		Timestamp:    time.Now().UTC(),
		TotalValue:   quantity.Mul(price),
	}
}
