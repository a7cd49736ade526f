package matching

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// bookSide keeps the side's price levels sorted best-first: descending for
// bids, ascending for asks. Lookup is a binary search on the price ordering;
// insertion keeps the slice sorted so the best level is always levels[0].
type bookSide struct {
	levels []*PriceLevel
	better func(a, b decimal.Decimal) bool
}

func newBidSide() *bookSide {
	return &bookSide{better: func(a, b decimal.Decimal) bool { return a.GreaterThan(b) }}
}

func newAskSide() *bookSide {
	return &bookSide{better: func(a, b decimal.Decimal) bool { return a.LessThan(b) }}
}

// search returns the insertion index for price and whether a level at
// exactly that price already exists there
func (s *bookSide) search(price decimal.Decimal) (int, bool) {
	idx := sort.Search(len(s.levels), func(i int) bool {
		return !s.better(s.levels[i].price, price)
	})
	if idx < len(s.levels) && s.levels[idx].price.Equal(price) {
		return idx, true
	}
	return idx, false
}

func (s *bookSide) add(order *types.Order) {
	idx, found := s.search(order.Price)
	if !found {
		level := NewPriceLevel(order.Price)
		s.levels = append(s.levels, nil)
		copy(s.levels[idx+1:], s.levels[idx:])
		s.levels[idx] = level
	}
	s.levels[idx].Append(order)
}

// remove deletes the order from its price level and prunes the level if it
// becomes empty, so best-price scans never stall on hollow levels
func (s *bookSide) remove(price decimal.Decimal, orderID string) bool {
	idx, found := s.search(price)
	if !found {
		return false
	}
	if !s.levels[idx].Remove(orderID) {
		return false
	}
	if s.levels[idx].IsEmpty() {
		s.levels = append(s.levels[:idx], s.levels[idx+1:]...)
	}
	return true
}

func (s *bookSide) best() *PriceLevel {
	if len(s.levels) == 0 {
		return nil
	}
	return s.levels[0]
}

func (s *bookSide) find(orderID string) *types.Order {
	for _, level := range s.levels {
		for _, order := range level.orders {
			if order.OrderID == orderID {
				return order
			}
		}
	}
	return nil
}

// OrderBook indexes one symbol's resting orders by side and price.
// It does no locking of its own; the engine holds the book's mutex for the
// full duration of every match cycle and cancellation.
type OrderBook struct {
	mu     sync.Mutex
	symbol string
	bids   *bookSide
	asks   *bookSide
}

// NewOrderBook creates an empty book for the given symbol
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		bids:   newBidSide(),
		asks:   newAskSide(),
	}
}

// Symbol returns the instrument this book belongs to
func (ob *OrderBook) Symbol() string {
	return ob.symbol
}

// Add inserts the order into the level matching its side and price
func (ob *OrderBook) Add(order *types.Order) {
	ob.side(order.Side).add(order)
}

// Remove deletes the order from the book by identity; empty levels are
// dropped from the index. Returns false if the order was not resting.
func (ob *OrderBook) Remove(order *types.Order) bool {
	return ob.side(order.Side).remove(order.Price, order.OrderID)
}

// Find returns the live resting order with the given ID, or nil
func (ob *OrderBook) Find(orderID string) *types.Order {
	if order := ob.bids.find(orderID); order != nil {
		return order
	}
	return ob.asks.find(orderID)
}

// BestBid returns the highest bid price, if any liquidity rests on the buy side
func (ob *OrderBook) BestBid() (decimal.Decimal, bool) {
	if level := ob.bids.best(); level != nil {
		return level.price, true
	}
	return decimal.Zero, false
}

// BestAsk returns the lowest ask price, if any liquidity rests on the sell side
func (ob *OrderBook) BestAsk() (decimal.Decimal, bool) {
	if level := ob.asks.best(); level != nil {
		return level.price, true
	}
	return decimal.Zero, false
}

// BestBidLevel returns the top buy level, or nil
func (ob *OrderBook) BestBidLevel() *PriceLevel {
	return ob.bids.best()
}

// BestAskLevel returns the top sell level, or nil
func (ob *OrderBook) BestAskLevel() *PriceLevel {
	return ob.asks.best()
}

// IsCrossed reports whether both sides are populated and best bid >= best ask.
// A crossed book must never be observed after a match cycle completes.
func (ob *OrderBook) IsCrossed() bool {
	bid, okBid := ob.BestBid()
	ask, okAsk := ob.BestAsk()
	return okBid && okAsk && bid.GreaterThanOrEqual(ask)
}

// LevelView is the aggregate view of one price level for snapshots
type LevelView struct {
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OrderCount int             `json:"order_count"`
}

func (s *bookSide) view(depth int) []LevelView {
	views := make([]LevelView, 0, len(s.levels))
	for i, level := range s.levels {
		if depth > 0 && i >= depth {
			break
		}
		views = append(views, LevelView{
			Price:      level.price,
			Quantity:   level.TotalQuantity(),
			OrderCount: level.Len(),
		})
	}
	return views
}

// BidLevels returns the buy side best-first, limited to depth levels
// (0 means no limit)
func (ob *OrderBook) BidLevels(depth int) []LevelView {
	return ob.bids.view(depth)
}

// AskLevels returns the sell side best-first, limited to depth levels
// (0 means no limit)
func (ob *OrderBook) AskLevels(depth int) []LevelView {
	return ob.asks.view(depth)
}

func (ob *OrderBook) side(side types.SideType) *bookSide {
	if side == types.Buy {
		return ob.bids
	}
	return ob.asks
}
