package storage

import (
	"context"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// CompositeOrderStore combines multiple OrderStore implementations.
// Writes go to ALL stores, reads come from the FIRST store that succeeds.
// Example: CompositeOrderStore(memoryStore, redisStore, postgresStore)
// writes to all three, reads from memory (fastest), falls back to redis,
// then postgres.
type CompositeOrderStore struct {
	stores []OrderStore
}

// NewCompositeOrderStore creates a composite store from multiple stores
func NewCompositeOrderStore(stores ...OrderStore) *CompositeOrderStore {
	return &CompositeOrderStore{stores: stores}
}

func (c *CompositeOrderStore) Save(ctx context.Context, order *types.Order) error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Save(ctx, order); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeOrderStore) Get(ctx context.Context, orderID string) (*types.Order, error) {
	var lastErr error
	for _, store := range c.stores {
		order, err := store.Get(ctx, orderID)
		if err == nil && order != nil {
			return order, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *CompositeOrderStore) GetBySymbol(ctx context.Context, symbol string) ([]*types.Order, error) {
	for _, store := range c.stores {
		orders, err := store.GetBySymbol(ctx, symbol)
		if err == nil && len(orders) > 0 {
			return orders, nil
		}
	}
	return []*types.Order{}, nil
}

func (c *CompositeOrderStore) GetByTrader(ctx context.Context, traderID string) ([]*types.Order, error) {
	for _, store := range c.stores {
		orders, err := store.GetByTrader(ctx, traderID)
		if err == nil && len(orders) > 0 {
			return orders, nil
		}
	}
	return []*types.Order{}, nil
}

func (c *CompositeOrderStore) GetAll(ctx context.Context) ([]*types.Order, error) {
	for _, store := range c.stores {
		orders, err := store.GetAll(ctx)
		if err == nil && len(orders) > 0 {
			return orders, nil
		}
	}
	return []*types.Order{}, nil
}

func (c *CompositeOrderStore) Close() error {
	var lastErr error
	for _, store := range c.stores {
		if err := store.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
