package matching

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDs carry a millisecond timestamp for external correlation plus a random
// component for global uniqueness.

// NewOrderID generates an order identifier
func NewOrderID() string {
	return newID("ORD")
}

// NewTradeID generates a trade identifier
func NewTradeID() string {
	return newID("TRD")
}

func newID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}
