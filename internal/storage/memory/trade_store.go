package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// InMemoryTradeStore implements TradeStore using a bounded buffer.
// Keeps only the N most recent trades in memory.
type InMemoryTradeStore struct {
	trades  []*types.Trade
	maxSize int
	mutex   sync.RWMutex
}

// NewInMemoryTradeStore creates a new in-memory trade store with a size limit
func NewInMemoryTradeStore(maxSize int) *InMemoryTradeStore {
	return &InMemoryTradeStore{
		trades:  make([]*types.Trade, 0, maxSize),
		maxSize: maxSize,
	}
}

func (s *InMemoryTradeStore) Save(_ context.Context, trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trade)
	s.trim()
	return nil
}

func (s *InMemoryTradeStore) SaveBatch(_ context.Context, trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trades...)
	s.trim()
	return nil
}

func (s *InMemoryTradeStore) Get(_ context.Context, tradeID string) (*types.Trade, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for i := len(s.trades) - 1; i >= 0; i-- {
		if s.trades[i].TradeID == tradeID {
			return s.trades[i], nil
		}
	}
	return nil, fmt.Errorf("trade %s not found", tradeID)
}

func (s *InMemoryTradeStore) GetRecent(_ context.Context, limit int) ([]*types.Trade, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 || limit > len(s.trades) {
		limit = len(s.trades)
	}

	// Most recent first
	result := make([]*types.Trade, 0, limit)
	for i := len(s.trades) - 1; i >= len(s.trades)-limit; i-- {
		result = append(result, s.trades[i])
	}
	return result, nil
}

func (s *InMemoryTradeStore) GetBySymbol(_ context.Context, symbol string, limit int) ([]*types.Trade, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 {
		limit = len(s.trades)
	}

	var result []*types.Trade
	for i := len(s.trades) - 1; i >= 0 && len(result) < limit; i-- {
		if s.trades[i].Symbol == symbol {
			result = append(result, s.trades[i])
		}
	}
	return result, nil
}

func (s *InMemoryTradeStore) GetByTrader(_ context.Context, traderID string, limit int) ([]*types.Trade, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 {
		limit = len(s.trades)
	}

	var result []*types.Trade
	for i := len(s.trades) - 1; i >= 0 && len(result) < limit; i-- {
		if s.trades[i].BuyTraderID == traderID || s.trades[i].SellTraderID == traderID {
			result = append(result, s.trades[i])
		}
	}
	return result, nil
}

func (s *InMemoryTradeStore) Close() error {
	// No cleanup needed for in-memory store
	return nil
}

// trim keeps only the newest maxSize trades; callers hold the write lock
func (s *InMemoryTradeStore) trim() {
	if len(s.trades) > s.maxSize {
		s.trades = s.trades[len(s.trades)-s.maxSize:]
	}
}
