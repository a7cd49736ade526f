package matching

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvediclabs/trading-engine/internal/api/logger"
	"github.com/finvediclabs/trading-engine/internal/metrics"
	"github.com/finvediclabs/trading-engine/internal/storage"
	"github.com/finvediclabs/trading-engine/internal/types"
)

// Engine owns the registry of order books and executes the matching
// algorithm. Matching for a given symbol is linearizable: the book's mutex
// is held for the full validate -> match -> mutate sequence. Persistence
// happens after the lock is released but before the result is reported, so
// book state can briefly run ahead of durable state. The in-process ledger
// is updated while the book lock is still held and is therefore the
// authoritative view of an order's status during that window; the stores
// are the durable record, never the arbiter of cancel-vs-fill ordering.
type Engine struct {
	registry *BookRegistry
	orders   storage.OrderStore
	trades   storage.TradeStore

	ledgerMu sync.RWMutex
	ledger   map[string]*types.Order
}

// MatchResult is the outcome of one order submission: the updated incoming
// order and the trades the match loop produced, in execution order.
type MatchResult struct {
	Order  *types.Order
	Trades []*types.Trade
}

// BookSnapshot is a consistent point-in-time view of one symbol's book
type BookSnapshot struct {
	Symbol  string
	BestBid *decimal.Decimal
	BestAsk *decimal.Decimal
	Bids    []LevelView
	Asks    []LevelView
}

// NewEngine creates a matching engine persisting through the given stores
func NewEngine(orders storage.OrderStore, trades storage.TradeStore) *Engine {
	return &Engine{
		registry: NewBookRegistry(),
		orders:   orders,
		trades:   trades,
		ledger:   make(map[string]*types.Order),
	}
}

// recordOrders stores clones in the in-process ledger. Callers hold the
// symbol's book lock, which is what makes ledger reads taken under that
// same lock linearizable with the match loop.
func (e *Engine) recordOrders(orders ...*types.Order) {
	e.ledgerMu.Lock()
	for _, order := range orders {
		e.ledger[order.OrderID] = order
	}
	e.ledgerMu.Unlock()
}

func (e *Engine) ledgerGet(orderID string) *types.Order {
	e.ledgerMu.RLock()
	order := e.ledger[orderID]
	e.ledgerMu.RUnlock()
	return order
}

// SubmitOrder validates the order, runs the match loop against the symbol's
// book, and persists the outcome. On validation failure the order is
// rejected without touching any state. On persistence failure the book
// mutation stands and the error is retryable.
func (e *Engine) SubmitOrder(ctx context.Context, order *types.Order) (*MatchResult, error) {
	if err := validateOrder(order); err != nil {
		order.Status = types.StatusRejected
		order.UpdatedAt = time.Now().UTC()
		return &MatchResult{Order: order.Clone()}, err
	}

	start := time.Now()
	book := e.registry.GetOrCreate(order.Symbol)

	book.mu.Lock()
	trades, touched := e.matchLoop(book, order)
	if order.RemainingQuantity().IsPositive() {
		book.Add(order)
	}
	submitted := order.Clone()
	e.recordOrders(append([]*types.Order{submitted.Clone()}, touched...)...)
	bidDepth, askDepth := len(book.bids.levels), len(book.asks.levels)
	book.mu.Unlock()

	metrics.ObserveMatchLatency(time.Since(start))
	metrics.IncOrdersSubmitted(string(submitted.Side), string(submitted.Status))
	metrics.AddTradesExecuted(submitted.Symbol, len(trades))
	metrics.SetBookDepth(submitted.Symbol, string(types.Buy), bidDepth)
	metrics.SetBookDepth(submitted.Symbol, string(types.Sell), askDepth)

	if len(trades) > 0 {
		logger.Info("Executed trades for order", map[string]interface{}{
			"order_id": submitted.OrderID,
			"symbol":   submitted.Symbol,
			"trades":   len(trades),
		})
	}

	result := &MatchResult{Order: submitted, Trades: trades}

	if err := e.persistMatch(ctx, submitted, touched, trades); err != nil {
		return result, err
	}
	return result, nil
}

// matchLoop crosses the incoming order against the opposite side until no
// cross remains or one side is exhausted. Each iteration either consumes
// the resting front order (shrinking the opposite side) or the incoming
// remainder (ending the loop), so termination is guaranteed. Returns the
// trades plus clones of every resting order that was touched, captured
// while the book lock is held.
func (e *Engine) matchLoop(book *OrderBook, incoming *types.Order) ([]*types.Trade, []*types.Order) {
	var trades []*types.Trade
	var touched []*types.Order

	for incoming.RemainingQuantity().IsPositive() {
		var level *PriceLevel
		if incoming.Side == types.Buy {
			level = book.BestAskLevel()
		} else {
			level = book.BestBidLevel()
		}
		if level == nil {
			break
		}

		resting := level.Front()
		if !crosses(incoming, resting) {
			break
		}

		tradeQty := decimal.Min(incoming.RemainingQuantity(), resting.RemainingQuantity())
		tradePrice := resting.Price

		var trade *types.Trade
		if incoming.Side == types.Buy {
			trade = types.NewTrade(NewTradeID(), incoming, resting, tradeQty, tradePrice)
		} else {
			trade = types.NewTrade(NewTradeID(), resting, incoming, tradeQty, tradePrice)
		}
		trades = append(trades, trade)

		incoming.ApplyFill(tradeQty, tradePrice)
		resting.ApplyFill(tradeQty, tradePrice)

		if resting.Status == types.StatusFilled {
			book.Remove(resting)
		}
		touched = append(touched, resting.Clone())
	}

	return trades, touched
}

// crosses is the price test of the matching loop: an incoming buy crosses a
// resting ask at or below its limit, an incoming sell crosses a resting bid
// at or above its limit
func crosses(incoming, resting *types.Order) bool {
	switch incoming.Side {
	case types.Buy:
		return incoming.Price.GreaterThanOrEqual(resting.Price)
	case types.Sell:
		return incoming.Price.LessThanOrEqual(resting.Price)
	}
	return false
}

func (e *Engine) persistMatch(ctx context.Context, submitted *types.Order, touched []*types.Order, trades []*types.Trade) error {
	if err := e.orders.Save(ctx, submitted); err != nil {
		return &PersistenceError{Op: "save order", Err: err}
	}
	for _, order := range touched {
		if err := e.orders.Save(ctx, order); err != nil {
			return &PersistenceError{Op: "save matched order", Err: err}
		}
	}
	if len(trades) > 0 {
		if err := e.trades.SaveBatch(ctx, trades); err != nil {
			return &PersistenceError{Op: "save trades", Err: err}
		}
	}
	return nil
}

// CancelOrder cancels the order with the given ID. The order is removed
// from its book before the status flips, so a cancelled order can never
// participate in a later match. The terminal check is re-taken against the
// in-process ledger under the book lock: the match loop records fills in
// the ledger before releasing that lock, so a fill whose persistence is
// still in flight is already visible here and the cancel is refused.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) (*types.Order, error) {
	stored := e.ledgerGet(orderID)
	if stored == nil {
		durable, err := e.orders.Get(ctx, orderID)
		if err != nil || durable == nil {
			return nil, ErrOrderNotFound
		}
		stored = durable
	}

	now := time.Now().UTC()
	var cancelled *types.Order

	book := e.registry.Get(stored.Symbol)
	if book != nil {
		book.mu.Lock()
		if current := e.ledgerGet(orderID); current != nil {
			stored = current
		}
		if stored.IsTerminal() {
			book.mu.Unlock()
			return nil, &AlreadyTerminalError{OrderID: orderID, Status: stored.Status}
		}
		if live := book.Find(orderID); live != nil {
			book.Remove(live)
			live.Status = types.StatusCancelled
			live.UpdatedAt = now
			cancelled = live.Clone()
		} else {
			cancelled = stored.Clone()
			cancelled.Status = types.StatusCancelled
			cancelled.UpdatedAt = now
		}
		e.recordOrders(cancelled.Clone())
		book.mu.Unlock()
	} else {
		// No book was ever created this process; the durable record decides
		if stored.IsTerminal() {
			return nil, &AlreadyTerminalError{OrderID: orderID, Status: stored.Status}
		}
		cancelled = stored.Clone()
		cancelled.Status = types.StatusCancelled
		cancelled.UpdatedAt = now
	}

	metrics.IncOrdersCancelled(cancelled.Symbol)
	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID,
		"symbol":   cancelled.Symbol,
	})

	if err := e.orders.Save(ctx, cancelled); err != nil {
		return cancelled, &PersistenceError{Op: "save cancelled order", Err: err}
	}
	return cancelled, nil
}

// GetOrder returns a copy of the order with the given ID. The in-process
// ledger is consulted first so a fill whose persistence is still in flight
// is already visible to readers.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (*types.Order, error) {
	if order := e.ledgerGet(orderID); order != nil {
		return order.Clone(), nil
	}
	order, err := e.orders.Get(ctx, orderID)
	if err != nil || order == nil {
		return nil, ErrOrderNotFound
	}
	return order.Clone(), nil
}

// OrdersBySymbol returns copies of every known order for the symbol
func (e *Engine) OrdersBySymbol(ctx context.Context, symbol string) ([]*types.Order, error) {
	orders, err := e.orders.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders by symbol", Err: err}
	}
	return cloneOrders(orders), nil
}

// OrdersByTrader returns copies of every known order for the trader
func (e *Engine) OrdersByTrader(ctx context.Context, traderID string) ([]*types.Order, error) {
	orders, err := e.orders.GetByTrader(ctx, traderID)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders by trader", Err: err}
	}
	return cloneOrders(orders), nil
}

// RecentTrades returns up to limit most recent trades
func (e *Engine) RecentTrades(ctx context.Context, limit int) ([]*types.Trade, error) {
	trades, err := e.trades.GetRecent(ctx, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list recent trades", Err: err}
	}
	return trades, nil
}

// TradeByID returns the trade with the given ID
func (e *Engine) TradeByID(ctx context.Context, tradeID string) (*types.Trade, error) {
	trade, err := e.trades.Get(ctx, tradeID)
	if err != nil || trade == nil {
		return nil, ErrTradeNotFound
	}
	return trade, nil
}

// TradesByTrader returns up to limit most recent trades where the trader
// was on either side
func (e *Engine) TradesByTrader(ctx context.Context, traderID string, limit int) ([]*types.Trade, error) {
	trades, err := e.trades.GetByTrader(ctx, traderID, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list trades by trader", Err: err}
	}
	return trades, nil
}

// TradesBySymbol returns up to limit most recent trades for a symbol
func (e *Engine) TradesBySymbol(ctx context.Context, symbol string, limit int) ([]*types.Trade, error) {
	trades, err := e.trades.GetBySymbol(ctx, symbol, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list trades by symbol", Err: err}
	}
	return trades, nil
}

// Snapshot returns a consistent view of the symbol's book limited to depth
// levels per side, or nil if no order has ever been seen for the symbol
func (e *Engine) Snapshot(symbol string, depth int) *BookSnapshot {
	book := e.registry.Get(symbol)
	if book == nil {
		return nil
	}

	book.mu.Lock()
	defer book.mu.Unlock()

	snapshot := &BookSnapshot{
		Symbol: symbol,
		Bids:   book.BidLevels(depth),
		Asks:   book.AskLevels(depth),
	}
	if bid, ok := book.BestBid(); ok {
		snapshot.BestBid = &bid
	}
	if ask, ok := book.BestAsk(); ok {
		snapshot.BestAsk = &ask
	}
	return snapshot
}

// Symbols returns every symbol with a book, in lexical order
func (e *Engine) Symbols() []string {
	return e.registry.Symbols()
}

// Close releases the underlying stores
func (e *Engine) Close() error {
	var lastErr error
	if err := e.orders.Close(); err != nil {
		lastErr = err
	}
	if err := e.trades.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

func validateOrder(order *types.Order) error {
	if strings.TrimSpace(order.Symbol) == "" {
		return &ValidationError{Field: "symbol", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(order.TraderID) == "" {
		return &ValidationError{Field: "trader_id", Reason: "cannot be empty"}
	}
	if order.Side != types.Buy && order.Side != types.Sell {
		return &ValidationError{Field: "side", Reason: "must be BUY or SELL"}
	}
	if order.Kind != types.LimitOrder {
		return &ValidationError{Field: "kind", Reason: "only LIMIT orders are supported"}
	}
	if !order.Quantity.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if !order.Price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	return nil
}

func cloneOrders(orders []*types.Order) []*types.Order {
	out := make([]*types.Order, len(orders))
	for i, order := range orders {
		out[i] = order.Clone()
	}
	return out
}
