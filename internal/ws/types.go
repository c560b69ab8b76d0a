package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove        MessageType = "move"
	MessageTypePromote     MessageType = "promote"
	MessageTypeGameState   MessageType = "gameState"
	MessageTypeDrawOffer   MessageType = "drawOffer"
	MessageTypeDrawAccept  MessageType = "drawAccept"
	MessageTypeDrawDecline MessageType = "drawDecline"
	MessageTypeResign      MessageType = "resign"
	MessageTypeError       MessageType = "error"
	MessageTypeMatchFound  MessageType = "matchFound"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PromotePayload carries the piece chosen for a pending promotion.
type PromotePayload struct {
	Piece string `json:"piece"`
}

// ErrorPayload is the body of an error message.
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewError wraps msg in a JSON error payload.
func NewError(msg string) Message {
	payload, _ := json.Marshal(ErrorPayload{Error: msg})
	return Message{Type: MessageTypeError, Payload: payload}
}
