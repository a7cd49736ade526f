package matching

import (
	"sort"
	"sync"
)

// BookRegistry maps symbols to their order books. Books are created lazily
// on first use and live for the process lifetime; the set is bounded by the
// finite universe of tradable symbols, so nothing is ever evicted.
type BookRegistry struct {
	mu    sync.RWMutex
	books map[string]*OrderBook
}

// NewBookRegistry creates an empty registry
func NewBookRegistry() *BookRegistry {
	return &BookRegistry{books: make(map[string]*OrderBook)}
}

// GetOrCreate returns the book for the symbol, creating it on first use.
// Once created a book's reference is stable, so callers can lock it without
// contending with registry growth.
func (r *BookRegistry) GetOrCreate(symbol string) *OrderBook {
	r.mu.RLock()
	book, ok := r.books[symbol]
	r.mu.RUnlock()
	if ok {
		return book
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if book, ok = r.books[symbol]; ok {
		return book
	}
	book = NewOrderBook(symbol)
	r.books[symbol] = book
	return book
}

// Get returns the book for the symbol, or nil if no order has been seen for it
func (r *BookRegistry) Get(symbol string) *OrderBook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.books[symbol]
}

// Symbols returns every known symbol in lexical order
func (r *BookRegistry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, 0, len(r.books))
	for symbol := range r.books {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
