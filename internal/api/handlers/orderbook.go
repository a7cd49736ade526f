package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/finvediclabs/trading-engine/internal/api/models"
)

const defaultDepth = 10

// GetOrderBookHandler returns aggregated price levels for a symbol
func (eh *EngineHolder) GetOrderBookHandler(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}
	depth := parseLimit(r.URL.Query().Get("depth"), defaultDepth, 100)

	snapshot := eh.Engine.Snapshot(symbol, depth)
	if snapshot == nil {
		writeErrorResponse(w, models.ErrSymbolNotFoundError(symbol))
		return
	}

	bids := make([]models.PriceLevelDTO, len(snapshot.Bids))
	for i, level := range snapshot.Bids {
		bids[i] = models.PriceLevelDTO{
			Price:      level.Price,
			Quantity:   level.Quantity,
			OrderCount: level.OrderCount,
		}
	}
	asks := make([]models.PriceLevelDTO, len(snapshot.Asks))
	for i, level := range snapshot.Asks {
		asks[i] = models.PriceLevelDTO{
			Price:      level.Price,
			Quantity:   level.Quantity,
			OrderCount: level.OrderCount,
		}
	}

	response := models.OrderBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbol:  snapshot.Symbol,
		BestBid: snapshot.BestBid,
		BestAsk: snapshot.BestAsk,
		Bids:    bids,
		Asks:    asks,
	}
	writeJSON(w, http.StatusOK, response)
}

// GetTopOfBookHandler returns the best bid and ask for a symbol
func (eh *EngineHolder) GetTopOfBookHandler(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		writeErrorResponse(w, models.ErrBadRequest("symbol query parameter is required", nil))
		return
	}

	snapshot := eh.Engine.Snapshot(symbol, 1)
	if snapshot == nil {
		writeErrorResponse(w, models.ErrSymbolNotFoundError(symbol))
		return
	}

	response := models.TopOfBookResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbol: snapshot.Symbol,
	}
	if len(snapshot.Bids) > 0 {
		response.BestBid = &models.BestQuote{
			Price:    snapshot.Bids[0].Price,
			Quantity: snapshot.Bids[0].Quantity,
		}
	}
	if len(snapshot.Asks) > 0 {
		response.BestAsk = &models.BestQuote{
			Price:    snapshot.Asks[0].Price,
			Quantity: snapshot.Asks[0].Quantity,
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// ListSymbolsHandler returns every symbol with an active order book
func (eh *EngineHolder) ListSymbolsHandler(w http.ResponseWriter, r *http.Request) {
	symbols := eh.Engine.Symbols()

	response := models.ListSymbolsResponse{
		BaseResponse: models.BaseResponse{
			Success:   true,
			Timestamp: time.Now().UTC(),
		},
		Symbols: symbols,
		Count:   len(symbols),
	}
	writeJSON(w, http.StatusOK, response)
}
