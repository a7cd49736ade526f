package handlers

import (
	"net/http"
	"time"

	"github.com/finvediclabs/trading-engine/internal/api/models"
)

const apiVersion = "1.0.0"

var startTime = time.Now()

// HealthHandler reports process liveness
func (eh *EngineHolder) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Version:       apiVersion,
	}
	writeJSON(w, http.StatusOK, response)
}
