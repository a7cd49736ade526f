package matching

import (
	"errors"
	"fmt"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// ErrOrderNotFound is returned when an order ID is unknown to the ledger
var ErrOrderNotFound = errors.New("order not found")

// ErrTradeNotFound is returned when a trade ID is unknown to the ledger
var ErrTradeNotFound = errors.New("trade not found")

// ValidationError rejects an order before any state is mutated
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order: %s %s", e.Field, e.Reason)
}

// AlreadyTerminalError is returned when cancelling an order whose status
// admits no further transitions
type AlreadyTerminalError struct {
	OrderID string
	Status  types.OrderStatus
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("order %s is already %s", e.OrderID, e.Status)
}

// PersistenceError wraps a ledger failure. The in-memory book mutation
// stands; the caller should retry persistence rather than resubmit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
