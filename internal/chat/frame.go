package chat

import (
	"encoding/json"
	"fmt"
)

// Live channel events.
const (
	EventJoinChat       = "join_chat"
	EventJoinUserRoom   = "join_user_room"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
)

// Frame is one websocket text message in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// sendMessageData is the payload of send_message. The sender fields the
// console includes are ignored in favour of the connection's identity.
type sendMessageData struct {
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	Recipient  string `json:"recipient"`
}

// EncodeFrame marshals data under event into a ready-to-write frame.
func EncodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", event, err)
	}
	frame, err := json.Marshal(Frame{Event: event, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", event, err)
	}
	return frame, nil
}
