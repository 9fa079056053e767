// Package protocol defines the JSON wire contract between the game
// server and its clients: one Message per WebSocket frame.
package protocol

import "encoding/json"

// Message is the envelope for every frame in both directions.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType names a wire event.
type MessageType string

// Client → server events.
const (
	// Connection.
	MsgPing      MessageType = "ping"
	MsgReconnect MessageType = "reconnect"

	// Room registry.
	MsgRoomList   MessageType = "room:list"
	MsgRoomCreate MessageType = "room:create"
	MsgRoomJoin   MessageType = "room:join"
	MsgRoomReady  MessageType = "room:ready"
	MsgRoomLeave  MessageType = "room:leave"

	// Game.
	MsgGameStart   MessageType = "game:start"
	MsgGameAttack  MessageType = "game:attack"
	MsgGameDefend  MessageType = "game:defend"
	MsgGameThrowIn MessageType = "game:throwin"
	MsgGameTake    MessageType = "game:take"
	MsgGameDone    MessageType = "game:done"

	// Stats.
	MsgStatsGet         MessageType = "stats:get"
	MsgStatsLeaderboard MessageType = "stats:leaderboard"
)

// Server → client events. MsgRoomList doubles as the response carrying
// the summary list.
const (
	MsgConnected     MessageType = "connected"
	MsgPong          MessageType = "pong"
	MsgReconnected   MessageType = "reconnected"
	MsgPlayerOffline MessageType = "player:offline"
	MsgPlayerOnline  MessageType = "player:online"

	MsgRoomJoined  MessageType = "room:joined"
	MsgRoomUpdated MessageType = "room:updated"
	MsgRoomError   MessageType = "room:error"

	MsgGameState      MessageType = "game:state"
	MsgGameLegalMoves MessageType = "game:legalMoves"
)

// Encode serializes the message for the wire.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses a wire frame.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewMessage wraps a payload into a message.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	msg := &Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage wraps a payload, panicking on marshal failure. Payloads
// are plain structs, so a failure is a programming error.
func MustNewMessage(msgType MessageType, payload any) *Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// ParsePayload decodes a message payload into the given type.
func ParsePayload[T any](msg *Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
