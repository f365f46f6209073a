// internal/api/handler/api/annotations.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/turnDeep/chartnote/internal/api/response"
	"github.com/turnDeep/chartnote/internal/core"
	"github.com/turnDeep/chartnote/internal/market"
	"github.com/turnDeep/chartnote/internal/metrics"
	"github.com/turnDeep/chartnote/internal/placement"
	"github.com/turnDeep/chartnote/internal/storage/comment"
)

// AnnotationsHandler computes annotation box positions server-side for
// clients that cannot run the layout themselves.
type AnnotationsHandler struct {
	store comment.Store
	svc   *market.Service
	cfg   placement.Config
	reg   *metrics.Registry
}

// NewAnnotationsHandler creates a new annotations handler. reg may be nil.
func NewAnnotationsHandler(store comment.Store, svc *market.Service, cfg placement.Config, reg *metrics.Registry) *AnnotationsHandler {
	return &AnnotationsHandler{store: store, svc: svc, cfg: cfg, reg: reg}
}

// Get runs a full placement pass over the comments anchored in the requested
// viewport. Required query parameters: from, to (UNIX seconds), price_min,
// price_max, width, height. Optional: symbol and timeframe to avoid candles.
func (h *AnnotationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err1 := strconv.ParseInt(q.Get("from"), 10, 64)
	to, err2 := strconv.ParseInt(q.Get("to"), 10, 64)
	priceMin, err3 := strconv.ParseFloat(q.Get("price_min"), 64)
	priceMax, err4 := strconv.ParseFloat(q.Get("price_max"), 64)
	width, err5 := strconv.ParseFloat(q.Get("width"), 64)
	height, err6 := strconv.ParseFloat(q.Get("height"), 64)
	for _, err := range []error{err1, err2, err3, err4, err5, err6} {
		if err != nil {
			response.Error(w, http.StatusBadRequest,
				&core.Error{Code: "INVALID_VIEWPORT", Message: "viewport parameters are missing or malformed"})
			return
		}
	}
	vp := placement.NewViewport(from, to, priceMin, priceMax, width, height)
	if !vp.Ready() {
		response.Error(w, http.StatusBadRequest,
			&core.Error{Code: "INVALID_VIEWPORT", Message: "viewport has no usable extent"})
		return
	}

	comments, err := h.store.List(r.Context(), comment.ListFilter{From: from, To: to})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	var candles []core.Candle
	if symbol, tf := q.Get("symbol"), q.Get("timeframe"); tf != "" {
		candles, err = h.svc.Candles(r.Context(), symbol, core.Timeframe(tf))
		if err != nil {
			// Place without candle avoidance rather than failing the pass.
			candles = nil
		}
	}

	groups := placement.GroupComments(comments, h.cfg.PriceThreshold)
	placer := placement.NewPlacer(h.cfg)

	start := time.Now()
	results := placer.PlaceAll(groups, vp, candles)
	if h.reg != nil {
		h.reg.RecordPlacementPass(time.Since(start).Seconds())
		for _, res := range results {
			if res.Forced {
				h.reg.RecordPlacement(metrics.OutcomeForced)
			} else {
				h.reg.RecordPlacement(metrics.OutcomePlaced)
			}
		}
		for i := len(results); i < len(groups); i++ {
			h.reg.RecordPlacement(metrics.OutcomeSuppressed)
		}
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"annotations": results,
		"groups":      len(groups),
	})
}
