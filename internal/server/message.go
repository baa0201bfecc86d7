package server

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrConnectionClosed is returned when sending on a connection that has shut
// down.
var ErrConnectionClosed = errors.New("connection closed")

// MessageType identifies a websocket message.
type MessageType string

const (
	// Client → server.
	MessageTypeSubscribe MessageType = "subscribe"

	// Server → client.
	MessageTypeSubscribed MessageType = "subscribed"
	MessageTypeRoomUpdate MessageType = "room_update"
	MessageTypeError      MessageType = "error"
)

// Message is the websocket envelope: a type tag, an opaque payload, and a
// server timestamp.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// SubscribeData asks the hub to start pushing updates for a room.
type SubscribeData struct {
	RoomCode string `json:"roomCode"`
}

// SubscribedData confirms a subscription.
type SubscribedData struct {
	RoomCode string `json:"roomCode"`
}

// ErrorData reports a failed client request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
