package matching

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/finvediclabs/trading-engine/internal/matching"
	"github.com/finvediclabs/trading-engine/internal/storage"
	"github.com/finvediclabs/trading-engine/internal/storage/memory"
	"github.com/finvediclabs/trading-engine/internal/types"
)

// gatedOrderStore wraps an OrderStore so a test can hold the next Save open
// and observe the engine mid-persistence.
type gatedOrderStore struct {
	storage.OrderStore
	mu      sync.Mutex
	release chan struct{}
	entered chan struct{}
}

func newGatedOrderStore(inner storage.OrderStore) *gatedOrderStore {
	return &gatedOrderStore{OrderStore: inner}
}

// holdNextSave makes the next Save call signal entered and block until the
// returned channel is closed
func (s *gatedOrderStore) holdNextSave() (entered <-chan struct{}, release chan<- struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entered = make(chan struct{})
	s.release = make(chan struct{})
	return s.entered, s.release
}

func (s *gatedOrderStore) Save(ctx context.Context, order *types.Order) error {
	s.mu.Lock()
	entered, release := s.entered, s.release
	s.entered, s.release = nil, nil
	s.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return s.OrderStore.Save(ctx, order)
}

// TestCancelDuringPersistWindow tests that a fully filled order cannot be
// cancelled while the fill's persistence is still in flight. The book has
// already dropped the order and the durable store still says PENDING; the
// engine must refuse the cancel anyway.
func TestCancelDuringPersistWindow(t *testing.T) {
	ctx := context.Background()
	gated := newGatedOrderStore(memory.NewInMemoryOrderStore(1000))
	engine := matching.NewEngine(gated, memory.NewInMemoryTradeStore(1000))

	buy := newLimitOrder("AAPL", types.Buy, "150", "10", "trader-1")
	if _, err := engine.SubmitOrder(ctx, buy); err != nil {
		t.Fatalf("SubmitOrder(buy) failed: %v", err)
	}

	entered, release := gated.holdNextSave()

	sellDone := make(chan error, 1)
	go func() {
		_, err := engine.SubmitOrder(ctx, newLimitOrder("AAPL", types.Sell, "150", "10", "trader-2"))
		sellDone <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("Matching sell never reached the order store")
	}

	// The buy is fully filled and off the book, but its FILLED state has not
	// been persisted yet
	_, err := engine.CancelOrder(ctx, buy.OrderID)
	var terminalErr *matching.AlreadyTerminalError
	if !errors.As(err, &terminalErr) {
		t.Fatalf("Expected AlreadyTerminalError while persistence in flight, got %v", err)
	}
	if terminalErr.Status != types.StatusFilled {
		t.Errorf("Expected terminal status FILLED, got %s", terminalErr.Status)
	}

	// Readers must also see the fill during the window
	fetched, err := engine.GetOrder(ctx, buy.OrderID)
	if err != nil {
		t.Fatalf("GetOrder() failed: %v", err)
	}
	if fetched.Status != types.StatusFilled {
		t.Errorf("Expected FILLED during persist window, got %s", fetched.Status)
	}

	close(release)
	if err := <-sellDone; err != nil {
		t.Fatalf("SubmitOrder(sell) failed after release: %v", err)
	}

	// Durable record settles on FILLED, never flipping back from a cancel
	final, err := gated.OrderStore.Get(ctx, buy.OrderID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if final.Status != types.StatusFilled {
		t.Errorf("Expected durable status FILLED, got %s", final.Status)
	}
	if !final.FilledQuantity.Equal(d("10")) {
		t.Errorf("Expected durable filled 10, got %s", final.FilledQuantity)
	}
}
