package storage

import (
	"context"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// CompositeTradeStore combines multiple TradeStore implementations.
// Writes fan out to all stores, reads come from the first that answers.
type CompositeTradeStore struct {
	stores []TradeStore
}

// NewCompositeTradeStore creates a composite store from multiple stores
func NewCompositeTradeStore(stores ...TradeStore) *CompositeTradeStore {
	return &CompositeTradeStore{stores: stores}
}

func (c *CompositeTradeStore) Save(ctx context.Context, trade *types.Trade) error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Save(ctx, trade); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeTradeStore) SaveBatch(ctx context.Context, trades []*types.Trade) error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.SaveBatch(ctx, trades); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeTradeStore) Get(ctx context.Context, tradeID string) (*types.Trade, error) {
	var lastErr error
	for _, store := range c.stores {
		trade, err := store.Get(ctx, tradeID)
		if err == nil && trade != nil {
			return trade, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *CompositeTradeStore) GetRecent(ctx context.Context, limit int) ([]*types.Trade, error) {
	for _, store := range c.stores {
		trades, err := store.GetRecent(ctx, limit)
		if err == nil && len(trades) > 0 {
			return trades, nil
		}
	}
	return []*types.Trade{}, nil
}

func (c *CompositeTradeStore) GetBySymbol(ctx context.Context, symbol string, limit int) ([]*types.Trade, error) {
	for _, store := range c.stores {
		trades, err := store.GetBySymbol(ctx, symbol, limit)
		if err == nil && len(trades) > 0 {
			return trades, nil
		}
	}
	return []*types.Trade{}, nil
}

func (c *CompositeTradeStore) GetByTrader(ctx context.Context, traderID string, limit int) ([]*types.Trade, error) {
	for _, store := range c.stores {
		trades, err := store.GetByTrader(ctx, traderID, limit)
		if err == nil && len(trades) > 0 {
			return trades, nil
		}
	}
	return []*types.Trade{}, nil
}

func (c *CompositeTradeStore) Close() error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
