package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// FileTradeStore implements TradeStore using append-only file writes.
// The file is a write-only audit log; read operations return empty. Layer
// it behind an InMemoryTradeStore in a CompositeTradeStore for reads.
type FileTradeStore struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

// NewFileTradeStore creates a new file-based trade store
func NewFileTradeStore(filePath string) (*FileTradeStore, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &FileTradeStore{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

func (s *FileTradeStore) Save(_ context.Context, trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.encoder.Encode(trade)
}

func (s *FileTradeStore) SaveBatch(_ context.Context, trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, trade := range trades {
		if err := s.encoder.Encode(trade); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileTradeStore) GetRecent(context.Context, int) ([]*types.Trade, error) {
	// Write-only audit log, no read support
	return []*types.Trade{}, nil
}

func (s *FileTradeStore) GetBySymbol(context.Context, string, int) ([]*types.Trade, error) {
	return []*types.Trade{}, nil
}

func (s *FileTradeStore) GetByTrader(context.Context, string, int) ([]*types.Trade, error) {
	return []*types.Trade{}, nil
}

func (s *FileTradeStore) Get(context.Context, string) (*types.Trade, error) {
	return nil, nil
}

func (s *FileTradeStore) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
