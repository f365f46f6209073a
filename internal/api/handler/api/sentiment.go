// internal/api/handler/api/sentiment.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/turnDeep/chartnote/internal/api/response"
	"github.com/turnDeep/chartnote/internal/sentiment"
)

// SentimentHandler serves the aggregate buy/sell indicator.
type SentimentHandler struct {
	analyzer *sentiment.Analyzer
}

// NewSentimentHandler creates a new sentiment handler.
func NewSentimentHandler(analyzer *sentiment.Analyzer) *SentimentHandler {
	return &SentimentHandler{analyzer: analyzer}
}

// Get returns the sentiment split over the trailing window, or over an
// explicit start/end window when one is given.
func (h *SentimentHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	hours := defaultListHours
	if v := q.Get("hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}

	from := time.Now().Add(-time.Duration(hours) * time.Hour).Unix()
	var to int64
	if v := q.Get("start"); v != "" {
		ts, err := parseTimeParam(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, err)
			return
		}
		from = ts
	}
	if v := q.Get("end"); v != "" {
		ts, err := parseTimeParam(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, err)
			return
		}
		to = ts
	}

	result, err := h.analyzer.AnalyzeRange(r.Context(), from, to)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
