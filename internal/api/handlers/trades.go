package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/finvediclabs/trading-engine/internal/api/models"
	"github.com/finvediclabs/trading-engine/internal/types"
)

// GetTradesHandler returns recently executed trades, optionally scoped to a
// symbol or to a trader (either side of the trade)
func (eh *EngineHolder) GetTradesHandler(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	traderID := strings.TrimSpace(r.URL.Query().Get("trader_id"))
	limit := parseLimit(r.URL.Query().Get("limit"), 50, 500)

	var trades []*types.Trade
	var err error

	switch {
	case symbol != "":
		trades, err = eh.Engine.TradesBySymbol(r.Context(), symbol, limit)
	case traderID != "":
		trades, err = eh.Engine.TradesByTrader(r.Context(), traderID, limit)
	default:
		trades, err = eh.Engine.RecentTrades(r.Context(), limit)
	}
	if err != nil {
		writeErrorResponse(w, engineErrorToHTTP(err))
		return
	}

	response := models.GetTradesResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Trades: convertTradesToDTO(trades),
		Count:  len(trades),
	}
	writeJSON(w, http.StatusOK, response)
}

// GetTradeHandler returns a single trade by its ID
func (eh *EngineHolder) GetTradeHandler(w http.ResponseWriter, r *http.Request) {
	tradeID := idFromPath(r.URL.Path)
	if tradeID == "" {
		writeErrorResponse(w, models.ErrBadRequest("Invalid trade ID", nil))
		return
	}

	trade, err := eh.Engine.TradeByID(r.Context(), tradeID)
	if err != nil {
		writeErrorResponse(w, models.ErrTradeNotFoundError(tradeID))
		return
	}

	dtos := convertTradesToDTO([]*types.Trade{trade})
	response := models.GetTradeResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Trade: &dtos[0],
	}
	writeJSON(w, http.StatusOK, response)
}
