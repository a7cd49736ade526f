package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/finvediclabs/trading-engine/internal/api/logger"
	"github.com/finvediclabs/trading-engine/internal/api/models"
	"github.com/finvediclabs/trading-engine/internal/matching"
	"github.com/finvediclabs/trading-engine/internal/types"
)

// EngineHolder wraps the matching engine for dependency injection
type EngineHolder struct {
	Engine *matching.Engine
}

// NewEngineHolder creates a new engine holder
func NewEngineHolder(engine *matching.Engine) *EngineHolder {
	return &EngineHolder{Engine: engine}
}

// writeErrorResponse writes an error response
func writeErrorResponse(w http.ResponseWriter, httpErr *models.HTTPError) {
	logger.Warn("Request failed", map[string]interface{}{
		"error_code": httpErr.Error.Code,
		"status":     httpErr.StatusCode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.StatusCode)

	response := models.BaseResponse{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Message:   httpErr.Error.Message,
		Error:     &httpErr.Error,
	}

	json.NewEncoder(w).Encode(response)
}

func writeJSON(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// engineErrorToHTTP maps engine errors to API errors
func engineErrorToHTTP(err error) *models.HTTPError {
	var validationErr *matching.ValidationError
	if errors.As(err, &validationErr) {
		return models.ErrBadRequest(validationErr.Error(),
			map[string]interface{}{"field": validationErr.Field})
	}

	var terminalErr *matching.AlreadyTerminalError
	if errors.As(err, &terminalErr) {
		return models.ErrOrderTerminalError(terminalErr.OrderID, string(terminalErr.Status))
	}

	var persistenceErr *matching.PersistenceError
	if errors.As(err, &persistenceErr) {
		return models.ErrPersistenceError("Order accepted but not yet durable, retry safe")
	}

	if errors.Is(err, matching.ErrOrderNotFound) {
		return models.ErrOrderNotFoundError("")
	}
	if errors.Is(err, matching.ErrTradeNotFound) {
		return models.ErrTradeNotFoundError("")
	}

	return models.ErrInternal(err.Error())
}

// convertSide converts string to SideType
func convertSide(side string) types.SideType {
	if strings.EqualFold(strings.TrimSpace(side), "buy") {
		return types.Buy
	}
	return types.Sell
}

// convertOrderToDTO converts an engine order to its API representation
func convertOrderToDTO(order *types.Order) *models.OrderDTO {
	return &models.OrderDTO{
		OrderID:           order.OrderID,
		Symbol:            order.Symbol,
		Side:              string(order.Side),
		Kind:              string(order.Kind),
		Price:             order.Price,
		Quantity:          order.Quantity,
		FilledQuantity:    order.FilledQuantity,
		RemainingQuantity: order.RemainingQuantity(),
		AveragePrice:      order.AveragePrice,
		Status:            string(order.Status),
		TraderID:          order.TraderID,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// convertTradesToDTO converts engine trades to their API representation
func convertTradesToDTO(trades []*types.Trade) []models.TradeDTO {
	dtos := make([]models.TradeDTO, len(trades))
	for i, trade := range trades {
		dtos[i] = models.TradeDTO{
			TradeID:      trade.TradeID,
			Symbol:       trade.Symbol,
			Quantity:     trade.Quantity,
			Price:        trade.Price,
			BuyOrderID:   trade.BuyOrderID,
			SellOrderID:  trade.SellOrderID,
			BuyTraderID:  trade.BuyTraderID,
			SellTraderID: trade.SellTraderID,
			TotalValue:   trade.TotalValue,
			Timestamp:    trade.Timestamp,
		}
	}
	return dtos
}

// SubmitOrderHandler handles single order submission
func (eh *EngineHolder) SubmitOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, models.ErrBadRequest("Invalid JSON format", map[string]interface{}{"error": err.Error()}))
		return
	}

	if httpErr := req.Validate(); httpErr != nil {
		writeErrorResponse(w, httpErr)
		return
	}

	order := types.NewOrder(
		matching.NewOrderID(),
		strings.ToUpper(strings.TrimSpace(req.Symbol)),
		convertSide(req.Side),
		types.LimitOrder,
		req.Price,
		req.Quantity,
		strings.TrimSpace(req.TraderID),
	)

	result, err := eh.Engine.SubmitOrder(r.Context(), order)
	if err != nil {
		writeErrorResponse(w, engineErrorToHTTP(err))
		return
	}

	logger.Info("Order submitted successfully", map[string]interface{}{
		"order_id":  result.Order.OrderID,
		"symbol":    result.Order.Symbol,
		"side":      result.Order.Side,
		"status":    result.Order.Status,
		"trader_id": result.Order.TraderID,
		"trades":    len(result.Trades),
	})

	response := models.SubmitOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Order processed successfully",
		},
		Order:  convertOrderToDTO(result.Order),
		Trades: convertTradesToDTO(result.Trades),
	}
	writeJSON(w, http.StatusOK, response)
}

// idFromPath extracts the trailing resource ID from paths like
// /api/v1/orders/{id}
func idFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(parts) < 5 {
		return ""
	}
	return parts[len(parts)-1]
}

// CancelOrderHandler handles order cancellation
func (eh *EngineHolder) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID := idFromPath(r.URL.Path)
	if orderID == "" {
		writeErrorResponse(w, models.ErrBadRequest("Invalid order ID", nil))
		return
	}

	cancelled, err := eh.Engine.CancelOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, matching.ErrOrderNotFound) {
			writeErrorResponse(w, models.ErrOrderNotFoundError(orderID))
			return
		}
		writeErrorResponse(w, engineErrorToHTTP(err))
		return
	}

	response := models.CancelOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
			Message:   "Order cancelled successfully",
		},
		Order: convertOrderToDTO(cancelled),
	}
	writeJSON(w, http.StatusOK, response)
}

// GetOrderHandler handles retrieving a single order
func (eh *EngineHolder) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID := idFromPath(r.URL.Path)
	if orderID == "" {
		writeErrorResponse(w, models.ErrBadRequest("Invalid order ID", nil))
		return
	}

	order, err := eh.Engine.GetOrder(r.Context(), orderID)
	if err != nil {
		writeErrorResponse(w, models.ErrOrderNotFoundError(orderID))
		return
	}

	response := models.GetOrderResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Order: convertOrderToDTO(order),
	}
	writeJSON(w, http.StatusOK, response)
}

// GetOrdersHandler handles listing orders filtered by symbol or trader.
// With active=true only orders still open for matching are returned.
func (eh *EngineHolder) GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	traderID := strings.TrimSpace(r.URL.Query().Get("trader_id"))
	activeOnly := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("active")), "true")
	limit := parseLimit(r.URL.Query().Get("limit"), 100, 1000)

	var orders []*types.Order
	var err error

	switch {
	case symbol != "":
		orders, err = eh.Engine.OrdersBySymbol(r.Context(), symbol)
	case traderID != "":
		orders, err = eh.Engine.OrdersByTrader(r.Context(), traderID)
	default:
		writeErrorResponse(w, models.ErrBadRequest("symbol or trader_id query parameter is required", nil))
		return
	}

	if err != nil {
		writeErrorResponse(w, engineErrorToHTTP(err))
		return
	}

	if activeOnly {
		open := orders[:0]
		for _, order := range orders {
			if !order.IsTerminal() {
				open = append(open, order)
			}
		}
		orders = open
	}

	if len(orders) > limit {
		orders = orders[:limit]
	}

	orderDTOs := make([]models.OrderDTO, len(orders))
	for i, order := range orders {
		orderDTOs[i] = *convertOrderToDTO(order)
	}

	response := models.GetOrdersResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Orders: orderDTOs,
		Count:  len(orderDTOs),
	}
	writeJSON(w, http.StatusOK, response)
}

// parseLimit parses a limit query parameter with a default and a cap
func parseLimit(value string, def, max int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return def
	}
	if parsed > max {
		return max
	}
	return parsed
}
