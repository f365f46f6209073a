// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/turnDeep/chartnote/internal/core"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is enforced upstream; the API is key-gated.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// CommentHandler persists an inbound comment and returns the stored copy
// with its assigned ID.
type CommentHandler func(ctx context.Context, c core.Comment) (*core.Comment, error)

// Hub fans broadcast frames out to all connected websocket sessions and
// routes inbound post_comment frames to the handler.
type Hub struct {
	handler CommentHandler
	logger  *zap.Logger

	sessions   map[*session]bool
	register   chan *session
	unregister chan *session
	broadcast  chan Envelope
	done       chan struct{}

	onConnChange func(int)
	onBroadcast  func(msgType string)
}

// OnConnChange registers a callback invoked with the session count whenever
// it changes. Must be set before Run.
func (h *Hub) OnConnChange(fn func(int)) {
	h.onConnChange = fn
}

// OnBroadcast registers a callback invoked with the frame type each time a
// broadcast is accepted for delivery. Must be set before Run.
func (h *Hub) OnBroadcast(fn func(msgType string)) {
	h.onBroadcast = fn
}

func (h *Hub) notifyConnChange() {
	if h.onConnChange != nil {
		h.onConnChange(len(h.sessions))
	}
}

// NewHub creates a hub. Run must be started before serving connections.
func NewHub(handler CommentHandler, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		handler:    handler,
		logger:     logger,
		sessions:   make(map[*session]bool),
		register:   make(chan *session),
		unregister: make(chan *session),
		broadcast:  make(chan Envelope, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Run owns the session set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for s := range h.sessions {
				close(s.send)
				delete(h.sessions, s)
			}
			return
		case s := <-h.register:
			h.sessions[s] = true
			h.notifyConnChange()
		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				close(s.send)
				h.notifyConnChange()
			}
		case env := <-h.broadcast:
			for s := range h.sessions {
				select {
				case s.send <- env:
				default:
					// Slow consumer, drop it.
					delete(h.sessions, s)
					close(s.send)
					h.notifyConnChange()
				}
			}
		}
	}
}

// Broadcast queues a frame for every connected session.
func (h *Hub) Broadcast(msgType string, payload any) error {
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- env:
		if h.onBroadcast != nil {
			h.onBroadcast(env.Type)
		}
		return nil
	case <-h.done:
		return core.ErrChannelClosed
	}
}

// ServeHTTP upgrades the request and runs the session pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := &session{
		hub:  h,
		conn: conn,
		send: make(chan Envelope, sendBuffer),
	}
	select {
	case h.register <- s:
	case <-h.done:
		conn.Close()
		return
	}

	// The request context dies when ServeHTTP returns, which for an
	// upgraded connection is immediately.
	go s.writePump()
	go s.readPump(context.Background())
}

// session is one connected websocket client.
type session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Envelope
}

func (s *session) readPump(ctx context.Context) {
	defer func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		s.handleFrame(ctx, raw)
	}
}

// handleFrame processes one inbound frame. Malformed frames answer with an
// error envelope to the sender only, the connection stays up.
func (s *session) handleFrame(ctx context.Context, raw []byte) {
	env, err := DecodeEnvelope(raw)
	if err != nil {
		s.reply(errorEnvelope("invalid_envelope", "malformed message"))
		return
	}

	switch env.Type {
	case TypePostComment:
		s.handlePostComment(ctx, env.Data)
	default:
		s.reply(errorEnvelope("unknown_type", "unsupported message type: "+env.Type))
	}
}

func (s *session) handlePostComment(ctx context.Context, data json.RawMessage) {
	var in struct {
		Timestamp   any     `json:"timestamp"`
		Price       float64 `json:"price"`
		Content     string  `json:"content"`
		EmotionIcon string  `json:"emotion_icon"`
		AuthorID    string  `json:"author_id"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		s.reply(errorEnvelope("invalid_comment", "malformed comment payload"))
		return
	}

	ts, err := core.NormalizeTimestamp(in.Timestamp)
	if err != nil {
		s.reply(errorEnvelope("invalid_timestamp", "timestamp is not a recognized format"))
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
		s.reply(errorEnvelope("invalid_comment", "comment fails validation"))
		return
	}

	saved, err := s.hub.handler(ctx, c)
	if err != nil {
		s.hub.logger.Error("saving comment failed", zap.Error(err))
		if errors.Is(err, core.ErrStorageFailed) {
			s.reply(errorEnvelope("storage_failed", "could not save comment"))
		} else {
			s.reply(errorEnvelope("internal", "could not process comment"))
		}
		return
	}

	if env, err := NewEnvelope(TypeCommentSaved, saved); err == nil {
		s.reply(env)
	}
	if err := s.hub.Broadcast(TypeNewComment, saved); err != nil {
		s.hub.logger.Warn("broadcast failed", zap.Error(err))
	}
}

// reply queues a frame for this session only, dropping it if the session's
// buffer is full.
func (s *session) reply(env Envelope) {
	select {
	case s.send <- env:
	default:
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case env, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
