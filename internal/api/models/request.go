package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SubmitOrderRequest represents a single order submission.
// Price and quantity are decimal strings; JSON numbers are accepted too.
type SubmitOrderRequest struct {
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"` // "buy" | "sell"
	Kind     string          `json:"kind"` // "limit"
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	TraderID string          `json:"trader_id"`
}

// Validate validates the order request
func (r *SubmitOrderRequest) Validate() *HTTPError {
	if strings.TrimSpace(r.Symbol) == "" {
		return ErrBadRequest("symbol cannot be empty", map[string]interface{}{"field": "symbol"})
	}

	if strings.TrimSpace(r.TraderID) == "" {
		return ErrBadRequest("trader_id cannot be empty", map[string]interface{}{"field": "trader_id"})
	}

	side := strings.ToLower(strings.TrimSpace(r.Side))
	if side != "buy" && side != "sell" {
		return ErrInvalidSideError(r.Side)
	}

	// Kind defaults to limit; anything else is unsupported
	kind := strings.ToLower(strings.TrimSpace(r.Kind))
	if kind != "" && kind != "limit" {
		return ErrInvalidKindError(r.Kind)
	}

	if !r.Quantity.IsPositive() {
		return ErrInvalidQuantityError(r.Quantity.String())
	}

	if !r.Price.IsPositive() {
		return ErrInvalidPriceError(r.Price.String())
	}

	return nil
}
