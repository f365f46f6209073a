// internal/realtime/envelope.go
package realtime

import (
	"encoding/json"

	"github.com/turnDeep/chartnote/internal/core"
)

// Message types carried over the websocket, both directions.
const (
	TypePostComment  = "post_comment"
	TypeNewComment   = "new_comment"
	TypeCommentSaved = "comment_saved"
	TypeMarketUpdate = "market_update"
	TypeError        = "error"
)

// Envelope is the wire frame: a type tag and a type-specific payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ErrorPayload is the data of a TypeError frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEnvelope marshals payload into an envelope of the given type.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: msgType, Data: data}, nil
}

// DecodeEnvelope parses a raw frame. Frames without a type are rejected.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, core.WrapError(core.ErrInvalidEnvelope, err)
	}
	if env.Type == "" {
		return Envelope{}, core.ErrInvalidEnvelope
	}
	return env, nil
}

// errorEnvelope builds a TypeError frame, swallowing the impossible marshal
// failure on a plain struct.
func errorEnvelope(code, message string) Envelope {
	env, _ := NewEnvelope(TypeError, ErrorPayload{Code: code, Message: message})
	return env
}
