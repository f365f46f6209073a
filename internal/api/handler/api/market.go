// internal/api/handler/api/market.go
package api

import (
	"errors"
	"net/http"

	"github.com/turnDeep/chartnote/internal/api/response"
	"github.com/turnDeep/chartnote/internal/core"
	"github.com/turnDeep/chartnote/internal/market"
)

// MarketHandler serves chart candles.
type MarketHandler struct {
	svc *market.Service
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(svc *market.Service) *MarketHandler {
	return &MarketHandler{svc: svc}
}

// Candles returns OHLCV bars for the symbol and timeframe in the path.
func (h *MarketHandler) Candles(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	tf := core.Timeframe(r.PathValue("timeframe"))

	candles, err := h.svc.Candles(r.Context(), symbol, tf)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, core.ErrNoData) {
			status = http.StatusNotFound
		}
		response.Error(w, status, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"symbol":    market.ResolveSymbol(symbol),
		"timeframe": tf,
		"candles":   candles,
	})
}
