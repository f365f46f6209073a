// internal/api/handler/api/comments.go
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/turnDeep/chartnote/internal/api/response"
	"github.com/turnDeep/chartnote/internal/core"
	"github.com/turnDeep/chartnote/internal/metrics"
	"github.com/turnDeep/chartnote/internal/realtime"
	"github.com/turnDeep/chartnote/internal/storage/comment"
)

const (
	defaultListHours = 24
	defaultListLimit = 500
)

// CommentsHandler handles comment-related API requests.
type CommentsHandler struct {
	store comment.Store
	hub   *realtime.Hub
	reg   *metrics.Registry
}

// NewCommentsHandler creates a new comments handler. hub and reg may be nil.
func NewCommentsHandler(store comment.Store, hub *realtime.Hub, reg *metrics.Registry) *CommentsHandler {
	return &CommentsHandler{store: store, hub: hub, reg: reg}
}

// parseTimeParam accepts UNIX seconds, UNIX milliseconds or an RFC3339
// string.
func parseTimeParam(v string) (int64, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return core.NormalizeTimestamp(n)
	}
	return core.NormalizeTimestamp(v)
}

// List returns comments from the trailing window given by the hours query
// parameter, or from an explicit start/end window when one is given.
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	hours := defaultListHours
	if v := q.Get("hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}

	filter := comment.ListFilter{
		From:  time.Now().Add(-time.Duration(hours) * time.Hour).Unix(),
		Limit: defaultListLimit,
	}
	if v := q.Get("start"); v != "" {
		ts, err := parseTimeParam(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, err)
			return
		}
		filter.From = ts
	}
	if v := q.Get("end"); v != "" {
		ts, err := parseTimeParam(v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, err)
			return
		}
		filter.To = ts
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			filter.Offset = n
		}
	}

	comments, err := h.store.List(r.Context(), filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	count, _ := h.store.Count(r.Context(), filter)

	response.JSON(w, http.StatusOK, map[string]any{
		"comments": comments,
		"total":    count,
		"hours":    hours,
	})
}

// Create saves a posted comment and broadcasts it to websocket clients.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Timestamp   any     `json:"timestamp"`
		Price       float64 `json:"price"`
		Content     string  `json:"content"`
		EmotionIcon string  `json:"emotion_icon"`
		AuthorID    string  `json:"author_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidEnvelope, err))
		return
	}

	ts, err := core.NormalizeTimestamp(in.Timestamp)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	c := core.Comment{
		Timestamp:   ts,
		Price:       in.Price,
		Content:     in.Content,
		EmotionIcon: in.EmotionIcon,
		AuthorID:    in.AuthorID,
	}
	if !c.IsValid() {
		response.Error(w, http.StatusBadRequest,
			&core.Error{Code: "INVALID_COMMENT", Message: "comment fails validation"})
		return
	}

	if err := h.store.Save(r.Context(), &c); err != nil {
		response.Error(w, http.StatusInternalServerError, core.WrapError(core.ErrStorageFailed, err))
		return
	}

	if h.reg != nil {
		h.reg.RecordCommentPosted("rest")
	}
	if h.hub != nil {
		h.hub.Broadcast(realtime.TypeNewComment, c)
	}

	response.JSON(w, http.StatusCreated, c)
}
