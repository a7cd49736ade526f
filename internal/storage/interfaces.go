package storage

import (
	"context"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// OrderStore is the durable ledger for orders. The engine treats Save as an
// idempotent upsert keyed by OrderID: repeated saves of the same order are
// safe, which is what makes persistence retryable after a failure.
// Implementations can be in-memory (map), Redis, PostgreSQL, etc.
type OrderStore interface {
	// Save upserts an order by its OrderID
	Save(ctx context.Context, order *types.Order) error

	// Get retrieves an order by ID
	Get(ctx context.Context, orderID string) (*types.Order, error)

	// GetBySymbol returns all orders for a symbol
	GetBySymbol(ctx context.Context, symbol string) ([]*types.Order, error)

	// GetByTrader returns all orders for a trader
	GetByTrader(ctx context.Context, traderID string) ([]*types.Order, error)

	// GetAll returns all tracked orders
	GetAll(ctx context.Context) ([]*types.Order, error)

	// Close releases any resources held by the store
	Close() error
}

// TradeStore is the durable ledger for trades.
// Implementations can be in-memory buffer, file log, Redis, PostgreSQL, etc.
type TradeStore interface {
	// Save persists a single trade
	Save(ctx context.Context, trade *types.Trade) error

	// SaveBatch persists every trade of one match cycle
	SaveBatch(ctx context.Context, trades []*types.Trade) error

	// Get retrieves a trade by ID
	Get(ctx context.Context, tradeID string) (*types.Trade, error)

	// GetRecent retrieves the N most recent trades
	GetRecent(ctx context.Context, limit int) ([]*types.Trade, error)

	// GetBySymbol retrieves the N most recent trades for a symbol
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]*types.Trade, error)

	// GetByTrader retrieves the N most recent trades where the trader was
	// on either side
	GetByTrader(ctx context.Context, traderID string, limit int) ([]*types.Trade, error)

	// Close releases any resources held by the store
	Close() error
}
