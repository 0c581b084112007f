// Package server defines the wire envelope and payload types exchanged with
// clients, plus shared helpers reused across client and hub logic.
package server

import (
	"encoding/json"
	"strings"
)

// Envelope type discriminators.
const (
	TypeJoin     = "join"
	TypeChat     = "chat"
	TypeUserList = "user-list"
	TypeError    = "error"
)

// ErrMustJoinFirst is the error message sent to a connection that attempts to
// chat before joining a room.
const ErrMustJoinFirst = "You must join a room before chatting."

// ErrMissingUser is the error message sent when a chat payload carries no
// usable user identity.
const ErrMissingUser = "Chat message is missing a user identity."

// User is the identity a client attaches to its connection. The server does
// not validate or deduplicate ids; any connection may claim any identity.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Envelope is the typed message unit exchanged over the transport. The
// payload is kept raw so the router can decode it per type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload is the client payload for a join envelope.
type JoinPayload struct {
	RoomID string `json:"roomId"`
	User   *User  `json:"user"`
}

// ChatPayload is the client payload for a chat envelope.
type ChatPayload struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// UserListPayload is broadcast to a room whenever its membership changes.
type UserListPayload struct {
	Users []User `json:"users"`
}

// ChatBroadcastPayload is the server-side chat payload. The timestamp is
// assigned at broadcast time, not at send time.
type ChatBroadcastPayload struct {
	Message   string `json:"message"`
	User      User   `json:"user"`
	Timestamp string `json:"timestamp"`
}

// ErrorEnvelope is sent only to the offending connection. Unlike the other
// server envelopes it carries a flat message instead of a payload object.
type ErrorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// encodeEnvelope serializes an outbound envelope exactly once so the same
// bytes can be fanned out to every recipient.
func encodeEnvelope(msgType string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: body})
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
