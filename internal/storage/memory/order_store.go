package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// InMemoryOrderStore implements OrderStore using an in-memory map with FIFO
// eviction. Thread-safe for concurrent access via RWMutex. When maxSize is
// reached, oldest orders are evicted to maintain the size limit.
type InMemoryOrderStore struct {
	orders   map[string]*types.Order
	orderIDs []string // FIFO queue for eviction
	maxSize  int
	mutex    sync.RWMutex
}

// NewInMemoryOrderStore creates a new in-memory order store with a size limit
func NewInMemoryOrderStore(maxSize int) *InMemoryOrderStore {
	return &InMemoryOrderStore{
		orders:   make(map[string]*types.Order),
		orderIDs: make([]string, 0, maxSize),
		maxSize:  maxSize,
	}
}

func (s *InMemoryOrderStore) Save(_ context.Context, order *types.Order) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.orders[order.OrderID]; !exists {
		s.orderIDs = append(s.orderIDs, order.OrderID)

		// Evict oldest order if size limit exceeded
		if len(s.orderIDs) > s.maxSize {
			oldestID := s.orderIDs[0]
			delete(s.orders, oldestID)
			s.orderIDs = s.orderIDs[1:]
		}
	}

	// Store a copy so later caller-side mutations cannot leak in
	s.orders[order.OrderID] = order.Clone()
	return nil
}

func (s *InMemoryOrderStore) Get(_ context.Context, orderID string) (*types.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	order, exists := s.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	return order, nil
}

func (s *InMemoryOrderStore) GetBySymbol(_ context.Context, symbol string) ([]*types.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var orders []*types.Order
	for _, id := range s.orderIDs {
		if order := s.orders[id]; order != nil && order.Symbol == symbol {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *InMemoryOrderStore) GetByTrader(_ context.Context, traderID string) ([]*types.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var orders []*types.Order
	for _, id := range s.orderIDs {
		if order := s.orders[id]; order != nil && order.TraderID == traderID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *InMemoryOrderStore) GetAll(_ context.Context) ([]*types.Order, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	orders := make([]*types.Order, 0, len(s.orders))
	for _, id := range s.orderIDs {
		if order := s.orders[id]; order != nil {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *InMemoryOrderStore) Close() error {
	// No cleanup needed for in-memory store
	return nil
}
