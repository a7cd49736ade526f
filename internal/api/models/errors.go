package models

import "net/http"

// ErrorCode represents standard error codes
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrInvalidKind     ErrorCode = "INVALID_ORDER_KIND"
	ErrInvalidSide     ErrorCode = "INVALID_SIDE"
	ErrInvalidPrice    ErrorCode = "INVALID_PRICE"
	ErrInvalidQuantity ErrorCode = "INVALID_QUANTITY"
	ErrOrderNotFound   ErrorCode = "ORDER_NOT_FOUND"
	ErrTradeNotFound   ErrorCode = "TRADE_NOT_FOUND"
	ErrSymbolNotFound  ErrorCode = "SYMBOL_NOT_FOUND"
	ErrOrderTerminal   ErrorCode = "ORDER_ALREADY_TERMINAL"
	ErrPersistence     ErrorCode = "PERSISTENCE_FAILURE"
	ErrInternalError   ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured error response
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPError wraps an APIError with an HTTP status code
type HTTPError struct {
	StatusCode int
	Error      APIError
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, code ErrorCode, message string, details map[string]interface{}) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Error: APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// Common error constructors

func ErrBadRequest(message string, details map[string]interface{}) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidRequest, message, details)
}

func ErrInvalidKindError(providedKind string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidKind,
		"Invalid order kind, only 'limit' is supported",
		map[string]interface{}{"provided_value": providedKind})
}

func ErrInvalidSideError(providedSide string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidSide,
		"Invalid side, must be 'buy' or 'sell'",
		map[string]interface{}{"provided_value": providedSide})
}

func ErrInvalidPriceError(price string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidPrice,
		"Price must be a decimal greater than 0",
		map[string]interface{}{"field": "price", "provided_value": price})
}

func ErrInvalidQuantityError(quantity string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidQuantity,
		"Quantity must be a decimal greater than 0",
		map[string]interface{}{"field": "quantity", "provided_value": quantity})
}

func ErrOrderNotFoundError(orderID string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, ErrOrderNotFound,
		"Order not found",
		map[string]interface{}{"order_id": orderID})
}

func ErrTradeNotFoundError(tradeID string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, ErrTradeNotFound,
		"Trade not found",
		map[string]interface{}{"trade_id": tradeID})
}

func ErrSymbolNotFoundError(symbol string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, ErrSymbolNotFound,
		"No order book for symbol",
		map[string]interface{}{"symbol": symbol})
}

func ErrOrderTerminalError(orderID, status string) *HTTPError {
	return NewHTTPError(http.StatusConflict, ErrOrderTerminal,
		"Order is already in a terminal state",
		map[string]interface{}{"order_id": orderID, "status": status})
}

func ErrPersistenceError(message string) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, ErrPersistence, message, nil)
}

func ErrInternal(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, ErrInternalError, message, nil)
}
