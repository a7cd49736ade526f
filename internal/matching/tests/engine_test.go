package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finvediclabs/trading-engine/internal/matching"
	"github.com/finvediclabs/trading-engine/internal/types"
)

// TestNewEngine tests the Engine constructor
func TestNewEngine(t *testing.T) {
	engine := newTestEngine()

	if engine == nil {
		t.Fatal("NewEngine() returned nil")
	}
}

// TestSubmitRestingOrder tests that a non-crossing order rests on the book
func TestSubmitRestingOrder(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	buy := newLimitOrder("AAPL", types.Buy, "150", "100", "trader-1")
	result, err := engine.SubmitOrder(ctx, buy)
	if err != nil {
		t.Fatalf("SubmitOrder() failed: %v", err)
	}

	if result.Order.Status != types.StatusPending {
		t.Errorf("Expected status PENDING, got %s", result.Order.Status)
	}
	if len(result.Trades) != 0 {
		t.Errorf("Expected no trades, got %d", len(result.Trades))
	}

	snapshot := engine.Snapshot("AAPL", 10)
	if snapshot == nil {
		t.Fatal("Expected a book snapshot for AAPL")
	}
	if snapshot.BestBid == nil || !snapshot.BestBid.Equal(d("150")) {
		t.Errorf("Expected best bid 150, got %v", snapshot.BestBid)
	}
}

// TestPartialFillAtRestingPrice tests a sell crossing a larger resting buy.
// The trade executes at the resting order's price, the incoming sell fills
// completely, and the resting buy is left partially filled on the book.
func TestPartialFillAtRestingPrice(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	buy := newLimitOrder("AAPL", types.Buy, "150", "100", "trader-1")
	if _, err := engine.SubmitOrder(ctx, buy); err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	sell := newLimitOrder("AAPL", types.Sell, "149", "60", "trader-2")
	result, err := engine.SubmitOrder(ctx, sell)
	if err != nil {
		t.Fatalf("SubmitOrder(sell) failed: %v", err)
	}

	if len(result.Trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(result.Trades))
	}
	trade := result.Trades[0]
	if !trade.Price.Equal(d("150")) {
		t.Errorf("Expected trade at resting price 150, got %s", trade.Price)
	}
	if !trade.Quantity.Equal(d("60")) {
		t.Errorf("Expected trade quantity 60, got %s", trade.Quantity)
	}
	if trade.BuyOrderID != buy.OrderID || trade.SellOrderID != sell.OrderID {
		t.Errorf("Trade order IDs incorrect: buy=%s, sell=%s", trade.BuyOrderID, trade.SellOrderID)
	}

	if result.Order.Status != types.StatusFilled {
		t.Errorf("Expected incoming sell FILLED, got %s", result.Order.Status)
	}
	if !result.Order.AveragePrice.Equal(d("150")) {
		t.Errorf("Expected sell average price 150, got %s", result.Order.AveragePrice)
	}

	restingBuy, err := engine.GetOrder(ctx, buy.OrderID)
	if err != nil {
		t.Fatalf("GetOrder(buy) failed: %v", err)
	}
	if restingBuy.Status != types.StatusPartiallyFilled {
		t.Errorf("Expected resting buy PARTIALLY_FILLED, got %s", restingBuy.Status)
	}
	if !restingBuy.FilledQuantity.Equal(d("60")) {
		t.Errorf("Expected resting buy filled 60, got %s", restingBuy.FilledQuantity)
	}
	if !restingBuy.RemainingQuantity().Equal(d("40")) {
		t.Errorf("Expected resting buy remaining 40, got %s", restingBuy.RemainingQuantity())
	}
	if !restingBuy.AveragePrice.Equal(d("150")) {
		t.Errorf("Expected resting buy average price 150, got %s", restingBuy.AveragePrice)
	}

	snapshot := engine.Snapshot("AAPL", 10)
	if snapshot.BestBid == nil || !snapshot.BestBid.Equal(d("150")) {
		t.Errorf("Expected remaining bid at 150, got %v", snapshot.BestBid)
	}
	if len(snapshot.Bids) != 1 || !snapshot.Bids[0].Quantity.Equal(d("40")) {
		t.Errorf("Expected bid level quantity 40, got %v", snapshot.Bids)
	}
}

// TestNoCrossBothRest tests that non-crossing opposite orders both rest
func TestNoCrossBothRest(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	buy := newLimitOrder("MSFT", types.Buy, "149.50", "50", "trader-1")
	if _, err := engine.SubmitOrder(ctx, buy); err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	sell := newLimitOrder("MSFT", types.Sell, "150", "50", "trader-2")
	result, err := engine.SubmitOrder(ctx, sell)
	if err != nil {
		t.Fatalf("SubmitOrder(sell) failed: %v", err)
	}

	if len(result.Trades) != 0 {
		t.Fatalf("Expected no trades, got %d", len(result.Trades))
	}
	if result.Order.Status != types.StatusPending {
		t.Errorf("Expected sell PENDING, got %s", result.Order.Status)
	}

	snapshot := engine.Snapshot("MSFT", 10)
	if snapshot.BestBid == nil || !snapshot.BestBid.Equal(d("149.50")) {
		t.Errorf("Expected best bid 149.50, got %v", snapshot.BestBid)
	}
	if snapshot.BestAsk == nil || !snapshot.BestAsk.Equal(d("150")) {
		t.Errorf("Expected best ask 150, got %v", snapshot.BestAsk)
	}
}

// TestExactPriceCross tests that equal buy and sell prices cross
func TestExactPriceCross(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	sell := newLimitOrder("TSLA", types.Sell, "200", "10", "trader-1")
	if _, err := engine.SubmitOrder(ctx, sell); err != nil {
		t.Fatalf("SubmitOrder(sell) failed: %v", err)
	}

	buy := newLimitOrder("TSLA", types.Buy, "200", "10", "trader-2")
	result, err := engine.SubmitOrder(ctx, buy)
	if err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	if len(result.Trades) != 1 {
		t.Fatalf("Expected 1 trade at equal prices, got %d", len(result.Trades))
	}
	if !result.Trades[0].Price.Equal(d("200")) {
		t.Errorf("Expected trade at 200, got %s", result.Trades[0].Price)
	}
	if result.Order.Status != types.StatusFilled {
		t.Errorf("Expected incoming buy FILLED, got %s", result.Order.Status)
	}

	snapshot := engine.Snapshot("TSLA", 10)
	if snapshot.BestBid != nil || snapshot.BestAsk != nil {
		t.Error("Expected empty book after full cross")
	}
}

// TestPriceTimePriority tests that same-price resting orders fill in arrival order
func TestPriceTimePriority(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	first := newLimitOrder("NVDA", types.Sell, "100", "10", "trader-1")
	second := newLimitOrder("NVDA", types.Sell, "100", "10", "trader-2")
	if _, err := engine.SubmitOrder(ctx, first); err != nil {
		t.Fatalf("SubmitOrder(first) failed: %v", err)
	}
	if _, err := engine.SubmitOrder(ctx, second); err != nil {
		t.Fatalf("SubmitOrder(second) failed: %v", err)
	}

	buy := newLimitOrder("NVDA", types.Buy, "100", "15", "trader-3")
	result, err := engine.SubmitOrder(ctx, buy)
	if err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	if len(result.Trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(result.Trades))
	}
	if result.Trades[0].SellOrderID != first.OrderID {
		t.Error("First trade should consume the earliest resting order")
	}
	if !result.Trades[0].Quantity.Equal(d("10")) {
		t.Errorf("Expected first trade quantity 10, got %s", result.Trades[0].Quantity)
	}
	if result.Trades[1].SellOrderID != second.OrderID {
		t.Error("Second trade should consume the later resting order")
	}
	if !result.Trades[1].Quantity.Equal(d("5")) {
		t.Errorf("Expected second trade quantity 5, got %s", result.Trades[1].Quantity)
	}

	firstResting, _ := engine.GetOrder(ctx, first.OrderID)
	if firstResting.Status != types.StatusFilled {
		t.Errorf("Expected first resting order FILLED, got %s", firstResting.Status)
	}
	secondResting, _ := engine.GetOrder(ctx, second.OrderID)
	if secondResting.Status != types.StatusPartiallyFilled {
		t.Errorf("Expected second resting order PARTIALLY_FILLED, got %s", secondResting.Status)
	}
}

// TestBetterPriceBeforeTime tests that a better-priced late order fills first
func TestBetterPriceBeforeTime(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	early := newLimitOrder("AMZN", types.Sell, "101", "10", "trader-1")
	late := newLimitOrder("AMZN", types.Sell, "100", "10", "trader-2")
	engine.SubmitOrder(ctx, early)
	engine.SubmitOrder(ctx, late)

	buy := newLimitOrder("AMZN", types.Buy, "101", "10", "trader-3")
	result, err := engine.SubmitOrder(ctx, buy)
	if err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	if len(result.Trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(result.Trades))
	}
	if result.Trades[0].SellOrderID != late.OrderID {
		t.Error("Better-priced ask should fill before the earlier worse-priced ask")
	}
	if !result.Trades[0].Price.Equal(d("100")) {
		t.Errorf("Expected trade at 100, got %s", result.Trades[0].Price)
	}
}

// TestMultiLevelSweep tests one order sweeping several price levels with a
// quantity-weighted average fill price
func TestMultiLevelSweep(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	engine.SubmitOrder(ctx, newLimitOrder("GOOG", types.Sell, "100", "10", "trader-1"))
	engine.SubmitOrder(ctx, newLimitOrder("GOOG", types.Sell, "101", "10", "trader-2"))
	engine.SubmitOrder(ctx, newLimitOrder("GOOG", types.Sell, "102", "10", "trader-3"))

	buy := newLimitOrder("GOOG", types.Buy, "101", "25", "trader-4")
	result, err := engine.SubmitOrder(ctx, buy)
	if err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	if len(result.Trades) != 2 {
		t.Fatalf("Expected 2 trades (levels 100 and 101), got %d", len(result.Trades))
	}
	if !result.Trades[0].Price.Equal(d("100")) || !result.Trades[1].Price.Equal(d("101")) {
		t.Errorf("Expected trades at 100 then 101, got %s and %s",
			result.Trades[0].Price, result.Trades[1].Price)
	}

	if result.Order.Status != types.StatusPartiallyFilled {
		t.Errorf("Expected buy PARTIALLY_FILLED, got %s", result.Order.Status)
	}
	if !result.Order.FilledQuantity.Equal(d("20")) {
		t.Errorf("Expected filled 20, got %s", result.Order.FilledQuantity)
	}
	// (10*100 + 10*101) / 20 = 100.5
	if !result.Order.AveragePrice.Equal(d("100.5")) {
		t.Errorf("Expected average price 100.5, got %s", result.Order.AveragePrice)
	}

	// Remainder rests as the new best bid at its own limit
	snapshot := engine.Snapshot("GOOG", 10)
	if snapshot.BestBid == nil || !snapshot.BestBid.Equal(d("101")) {
		t.Errorf("Expected remainder resting at 101, got %v", snapshot.BestBid)
	}
	if snapshot.BestAsk == nil || !snapshot.BestAsk.Equal(d("102")) {
		t.Errorf("Expected remaining ask at 102, got %v", snapshot.BestAsk)
	}
}

// TestAveragePriceRounding tests half-up rounding to four decimal places
func TestAveragePriceRounding(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	engine.SubmitOrder(ctx, newLimitOrder("META", types.Sell, "100", "1", "trader-1"))
	engine.SubmitOrder(ctx, newLimitOrder("META", types.Sell, "100.0001", "2", "trader-2"))

	buy := newLimitOrder("META", types.Buy, "101", "3", "trader-3")
	result, err := engine.SubmitOrder(ctx, buy)
	if err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	// (1*100 + 2*100.0001) / 3 = 100.00006666... -> 100.0001 half-up at 4dp
	if !result.Order.AveragePrice.Equal(d("100.0001")) {
		t.Errorf("Expected average price 100.0001, got %s", result.Order.AveragePrice)
	}
}

// TestCancelRemovesFromBook tests that a cancelled order no longer matches
func TestCancelRemovesFromBook(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	buy := newLimitOrder("AAPL", types.Buy, "150", "100", "trader-1")
	if _, err := engine.SubmitOrder(ctx, buy); err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	cancelled, err := engine.CancelOrder(ctx, buy.OrderID)
	if err != nil {
		t.Fatalf("CancelOrder() failed: %v", err)
	}
	if cancelled.Status != types.StatusCancelled {
		t.Errorf("Expected status CANCELLED, got %s", cancelled.Status)
	}

	snapshot := engine.Snapshot("AAPL", 10)
	if snapshot.BestBid != nil {
		t.Error("Cancelled order still present as best bid")
	}

	// A sell that would have crossed the cancelled bid must rest instead
	sell := newLimitOrder("AAPL", types.Sell, "149", "60", "trader-2")
	result, err := engine.SubmitOrder(ctx, sell)
	if err != nil {
		t.Fatalf("SubmitOrder(sell) failed: %v", err)
	}
	if len(result.Trades) != 0 {
		t.Errorf("Sell matched against a cancelled order: %d trades", len(result.Trades))
	}
	if result.Order.Status != types.StatusPending {
		t.Errorf("Expected sell PENDING, got %s", result.Order.Status)
	}
}

// TestCancelPartiallyFilled tests cancelling the unfilled remainder
func TestCancelPartiallyFilled(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	buy := newLimitOrder("MSFT", types.Buy, "150", "100", "trader-1")
	engine.SubmitOrder(ctx, buy)
	engine.SubmitOrder(ctx, newLimitOrder("MSFT", types.Sell, "150", "60", "trader-2"))

	cancelled, err := engine.CancelOrder(ctx, buy.OrderID)
	if err != nil {
		t.Fatalf("CancelOrder() failed: %v", err)
	}
	if cancelled.Status != types.StatusCancelled {
		t.Errorf("Expected status CANCELLED, got %s", cancelled.Status)
	}
	if !cancelled.FilledQuantity.Equal(d("60")) {
		t.Errorf("Cancel should preserve filled quantity 60, got %s", cancelled.FilledQuantity)
	}
	if !cancelled.AveragePrice.Equal(d("150")) {
		t.Errorf("Cancel should preserve average price 150, got %s", cancelled.AveragePrice)
	}
}

// TestCancelTerminalOrder tests cancelling an already-terminal order
func TestCancelTerminalOrder(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	buy := newLimitOrder("TSLA", types.Buy, "200", "10", "trader-1")
	engine.SubmitOrder(ctx, buy)
	engine.SubmitOrder(ctx, newLimitOrder("TSLA", types.Sell, "200", "10", "trader-2"))

	_, err := engine.CancelOrder(ctx, buy.OrderID)
	var terminalErr *matching.AlreadyTerminalError
	if !errors.As(err, &terminalErr) {
		t.Fatalf("Expected AlreadyTerminalError, got %v", err)
	}
	if terminalErr.Status != types.StatusFilled {
		t.Errorf("Expected terminal status FILLED, got %s", terminalErr.Status)
	}

	// Cancelling twice reports the terminal state both times
	_, err = engine.CancelOrder(ctx, buy.OrderID)
	if !errors.As(err, &terminalErr) {
		t.Errorf("Expected AlreadyTerminalError on repeat cancel, got %v", err)
	}
}

// TestCancelUnknownOrder tests cancelling an order that never existed
func TestCancelUnknownOrder(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.CancelOrder(context.Background(), "ORD-0-missing")
	if !errors.Is(err, matching.ErrOrderNotFound) {
		t.Errorf("Expected ErrOrderNotFound, got %v", err)
	}
}

// TestValidationRejection tests that invalid orders are rejected untouched
func TestValidationRejection(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name  string
		order *types.Order
	}{
		{"EmptySymbol", types.NewOrder(matching.NewOrderID(), "", types.Buy, types.LimitOrder, d("100"), d("10"), "trader-1")},
		{"EmptyTrader", types.NewOrder(matching.NewOrderID(), "AAPL", types.Buy, types.LimitOrder, d("100"), d("10"), "")},
		{"ZeroQuantity", types.NewOrder(matching.NewOrderID(), "AAPL", types.Buy, types.LimitOrder, d("100"), d("0"), "trader-1")},
		{"NegativeQuantity", types.NewOrder(matching.NewOrderID(), "AAPL", types.Buy, types.LimitOrder, d("100"), d("-5"), "trader-1")},
		{"ZeroPrice", types.NewOrder(matching.NewOrderID(), "AAPL", types.Buy, types.LimitOrder, d("0"), d("10"), "trader-1")},
		{"NegativePrice", types.NewOrder(matching.NewOrderID(), "AAPL", types.Buy, types.LimitOrder, d("-1"), d("10"), "trader-1")},
		{"BadSide", types.NewOrder(matching.NewOrderID(), "AAPL", types.SideType("HOLD"), types.LimitOrder, d("100"), d("10"), "trader-1")},
		{"BadKind", types.NewOrder(matching.NewOrderID(), "AAPL", types.Buy, types.OrderKind("MARKET"), d("100"), d("10"), "trader-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.SubmitOrder(ctx, tt.order)
			var validationErr *matching.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if result.Order.Status != types.StatusRejected {
				t.Errorf("Expected status REJECTED, got %s", result.Order.Status)
			}
			if len(result.Trades) != 0 {
				t.Errorf("Rejected order produced %d trades", len(result.Trades))
			}

			// Rejected orders are never stored
			if _, err := engine.GetOrder(ctx, tt.order.OrderID); !errors.Is(err, matching.ErrOrderNotFound) {
				t.Errorf("Rejected order was stored: %v", err)
			}
		})
	}
}

// TestSymbolIsolation tests that books for different symbols never interact
func TestSymbolIsolation(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Buy, "150", "10", "trader-1"))
	result, err := engine.SubmitOrder(ctx, newLimitOrder("MSFT", types.Sell, "149", "10", "trader-2"))
	if err != nil {
		t.Fatalf("SubmitOrder() failed: %v", err)
	}

	if len(result.Trades) != 0 {
		t.Error("Orders for different symbols matched against each other")
	}

	symbols := engine.Symbols()
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("Expected symbols [AAPL MSFT], got %v", symbols)
	}
}

// TestRecentTrades tests trade retrieval after matching
func TestRecentTrades(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Sell, "150", "10", "trader-1"))
	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Buy, "150", "10", "trader-2"))

	trades, err := engine.RecentTrades(ctx, 10)
	if err != nil {
		t.Fatalf("RecentTrades() failed: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}
	if !trades[0].TotalValue.Equal(d("1500")) {
		t.Errorf("Expected total value 1500, got %s", trades[0].TotalValue)
	}
}

// TestTradeByID tests single trade retrieval
func TestTradeByID(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Sell, "150", "10", "trader-1"))
	result, _ := engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Buy, "150", "10", "trader-2"))
	if len(result.Trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(result.Trades))
	}

	trade, err := engine.TradeByID(ctx, result.Trades[0].TradeID)
	if err != nil {
		t.Fatalf("TradeByID() failed: %v", err)
	}
	if trade.Symbol != "AAPL" || !trade.Quantity.Equal(d("10")) {
		t.Errorf("Got wrong trade back: %+v", trade)
	}

	if _, err := engine.TradeByID(ctx, "TRD-missing"); !errors.Is(err, matching.ErrTradeNotFound) {
		t.Errorf("Expected ErrTradeNotFound, got %v", err)
	}
}

// TestTradesByTrader tests trade retrieval scoped to one trader
func TestTradesByTrader(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Sell, "150", "10", "trader-1"))
	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Buy, "150", "10", "trader-2"))
	engine.SubmitOrder(ctx, newLimitOrder("MSFT", types.Sell, "300", "5", "trader-1"))
	engine.SubmitOrder(ctx, newLimitOrder("MSFT", types.Buy, "300", "5", "trader-3"))

	trades, err := engine.TradesByTrader(ctx, "trader-1", 10)
	if err != nil {
		t.Fatalf("TradesByTrader() failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("Expected 2 trades for trader-1, got %d", len(trades))
	}

	trades, _ = engine.TradesByTrader(ctx, "trader-3", 10)
	if len(trades) != 1 || trades[0].Symbol != "MSFT" {
		t.Errorf("Expected only the MSFT trade for trader-3, got %d trades", len(trades))
	}
}

// TestOrdersByTrader tests order retrieval scoped to one trader
func TestOrdersByTrader(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Buy, "150", "10", "trader-1"))
	engine.SubmitOrder(ctx, newLimitOrder("MSFT", types.Buy, "300", "5", "trader-1"))
	engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Buy, "149", "10", "trader-2"))

	orders, err := engine.OrdersByTrader(ctx, "trader-1")
	if err != nil {
		t.Fatalf("OrdersByTrader() failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("Expected 2 orders for trader-1, got %d", len(orders))
	}
	for _, order := range orders {
		if order.TraderID != "trader-1" {
			t.Errorf("Got order for wrong trader: %s", order.TraderID)
		}
	}
}

// TestResultIsDetachedFromBook tests that mutating a returned order does not
// change the book's copy
func TestResultIsDetachedFromBook(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	buy := newLimitOrder("AAPL", types.Buy, "150", "100", "trader-1")
	result, err := engine.SubmitOrder(ctx, buy)
	if err != nil {
		t.Fatalf("SubmitOrder() failed: %v", err)
	}

	result.Order.FilledQuantity = d("999")
	result.Order.Status = types.StatusFilled

	fetched, err := engine.GetOrder(ctx, buy.OrderID)
	if err != nil {
		t.Fatalf("GetOrder() failed: %v", err)
	}
	if !fetched.FilledQuantity.IsZero() || fetched.Status != types.StatusPending {
		t.Error("Mutating a returned order leaked into engine state")
	}
}

// TestConcurrentSubmissions tests quantity conservation under concurrent
// submissions to one symbol
func TestConcurrentSubmissions(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	const pairs = 50
	var wg sync.WaitGroup

	for i := 0; i < pairs; i++ {
		wg.Add(2)
		trader := fmt.Sprintf("trader-%d", i)
		go func() {
			defer wg.Done()
			engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Buy, "100", "1", trader+"-buy"))
		}()
		go func() {
			defer wg.Done()
			engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Sell, "100", "1", trader+"-sell"))
		}()
	}
	wg.Wait()

	trades, err := engine.RecentTrades(ctx, pairs*2)
	if err != nil {
		t.Fatalf("RecentTrades() failed: %v", err)
	}

	traded := decimal.Zero
	for _, trade := range trades {
		traded = traded.Add(trade.Quantity)
	}

	snapshot := engine.Snapshot("AAPL", 100)
	resting := decimal.Zero
	for _, level := range snapshot.Bids {
		resting = resting.Add(level.Quantity)
	}
	for _, level := range snapshot.Asks {
		resting = resting.Add(level.Quantity)
	}

	// Every submitted share is either traded (counted on both sides) or resting
	total := traded.Mul(d("2")).Add(resting)
	if !total.Equal(d(fmt.Sprintf("%d", pairs*2))) {
		t.Errorf("Quantity not conserved: traded=%s resting=%s", traded, resting)
	}

	if snapshot.BestBid != nil && snapshot.BestAsk != nil {
		t.Error("Book left crossed after concurrent submissions at one price")
	}
}
