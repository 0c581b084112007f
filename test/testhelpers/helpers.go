// Package testhelpers provides common utilities and helper functions for
// testing the room chat relay.
//
// This package contains reusable test utilities shared across the
// integration tests: dialing WebSocket connections, sending protocol
// envelopes, and asserting on received frames.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// User mirrors the wire shape of a user profile.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ServerEnvelope decodes any server-to-client frame. Error envelopes carry a
// flat message; the rest use a payload object.
type ServerEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Message string          `json:"message"`
}

// CreateTestServer creates a test HTTP server with the given handler.
// It returns a running httptest.Server that should be closed after use.
func CreateTestServer(handler http.Handler) *httptest.Server {
	return httptest.NewServer(handler)
}

// WebSocketURL converts an httptest server URL to the ws:// endpoint URL.
func WebSocketURL(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
}

// ConnectWebSocket creates a WebSocket connection to the specified URL.
func ConnectWebSocket(url, origin string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	headers.Set("Origin", origin)

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// SendJoin sends a join envelope for the given room and user.
func SendJoin(conn *websocket.Conn, roomID string, user User) error {
	return conn.WriteJSON(map[string]any{
		"type": "join",
		"payload": map[string]any{
			"roomId": roomID,
			"user":   user,
		},
	})
}

// SendChat sends a chat envelope with the given message and user.
func SendChat(conn *websocket.Conn, message string, user User) error {
	return conn.WriteJSON(map[string]any{
		"type": "chat",
		"payload": map[string]any{
			"message": message,
			"user":    user,
		},
	})
}

// SendRaw sends a raw text frame, useful for malformed input tests.
func SendRaw(conn *websocket.Conn, data []byte) error {
	return conn.WriteMessage(websocket.TextMessage, data)
}

// ReceiveEnvelope reads one frame within the timeout and decodes it.
func ReceiveEnvelope(t *testing.T, conn *websocket.Conn, timeout time.Duration) ServerEnvelope {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}

	var env ServerEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("Failed to decode frame %s: %v", raw, err)
	}
	return env
}

// ExpectUserList reads one frame and asserts it is a user-list, returning the
// decoded users.
func ExpectUserList(t *testing.T, conn *websocket.Conn, timeout time.Duration) []User {
	t.Helper()

	env := ReceiveEnvelope(t, conn, timeout)
	if env.Type != "user-list" {
		t.Fatalf("Expected user-list envelope, got %q", env.Type)
	}

	var payload struct {
		Users []User `json:"users"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("Failed to decode user-list payload: %v", err)
	}
	return payload.Users
}

// ChatPayload is the decoded payload of a server chat envelope.
type ChatPayload struct {
	Message   string `json:"message"`
	User      User   `json:"user"`
	Timestamp string `json:"timestamp"`
}

// ExpectChat reads one frame and asserts it is a chat envelope.
func ExpectChat(t *testing.T, conn *websocket.Conn, timeout time.Duration) ChatPayload {
	t.Helper()

	env := ReceiveEnvelope(t, conn, timeout)
	if env.Type != "chat" {
		t.Fatalf("Expected chat envelope, got %q", env.Type)
	}

	var payload ChatPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("Failed to decode chat payload: %v", err)
	}
	return payload
}

// ExpectError reads one frame and asserts it is an error envelope, returning
// its message.
func ExpectError(t *testing.T, conn *websocket.Conn, timeout time.Duration) string {
	t.Helper()

	env := ReceiveEnvelope(t, conn, timeout)
	if env.Type != "error" {
		t.Fatalf("Expected error envelope, got %q", env.Type)
	}
	return env.Message
}

// ExpectNoMessage asserts that no frame arrives within the timeout.
func ExpectNoMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	if _, raw, err := conn.ReadMessage(); err == nil {
		t.Fatalf("Expected no frame, got %s", raw)
	}
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}

// MakeRequest creates and executes an HTTP request, returning the response.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	return resp
}

// AssertStatusCode checks if the HTTP response has the expected status code.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}
