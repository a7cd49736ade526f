package matching

import (
	"github.com/shopspring/decimal"

	"github.com/finvediclabs/trading-engine/internal/matching"
	"github.com/finvediclabs/trading-engine/internal/storage/memory"
	"github.com/finvediclabs/trading-engine/internal/types"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newTestEngine() *matching.Engine {
	orderStore := memory.NewInMemoryOrderStore(10000)
	tradeStore := memory.NewInMemoryTradeStore(10000)
	return matching.NewEngine(orderStore, tradeStore)
}

func newLimitOrder(symbol string, side types.SideType, price, quantity, trader string) *types.Order {
	return types.NewOrder(matching.NewOrderID(), symbol, side, types.LimitOrder, d(price), d(quantity), trader)
}
