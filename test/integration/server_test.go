// Package integration contains integration tests for the HTTP surface of the
// relay: health check, method policing on the WebSocket endpoint, and origin
// enforcement.
package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Tyrowin/roomchat/internal/server"
	"github.com/Tyrowin/roomchat/test/testhelpers"
)

func TestHealthEndpoint(t *testing.T) {
	server.SetConfig(nil)
	hub := server.NewHub()
	go hub.Run()
	t.Cleanup(func() { _ = hub.Shutdown(time.Second) })

	testServer := testhelpers.CreateTestServer(server.SetupRoutes(hub))
	defer testServer.Close()

	resp := testhelpers.MakeRequest(t, http.MethodGet, testServer.URL+"/")
	defer func() { _ = resp.Body.Close() }()

	testhelpers.AssertStatusCode(t, resp, http.StatusOK)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "running") {
		t.Errorf("Unexpected health body: %q", body)
	}
}

func TestWebSocketEndpointRejectsNonGet(t *testing.T) {
	server.SetConfig(nil)
	hub := server.NewHub()
	go hub.Run()
	t.Cleanup(func() { _ = hub.Shutdown(time.Second) })

	testServer := testhelpers.CreateTestServer(server.SetupRoutes(hub))
	defer testServer.Close()

	resp := testhelpers.MakeRequest(t, http.MethodPost, testServer.URL+"/ws")
	defer func() { _ = resp.Body.Close() }()

	testhelpers.AssertStatusCode(t, resp, http.StatusMethodNotAllowed)
}

func TestWebSocketUpgradeBlockedForDisallowedOrigin(t *testing.T) {
	server.SetConfig(&server.Config{AllowedOrigins: []string{"http://allowed.example"}})
	t.Cleanup(func() { server.SetConfig(nil) })

	hub := server.NewHub()
	go hub.Run()
	t.Cleanup(func() { _ = hub.Shutdown(time.Second) })

	testServer := testhelpers.CreateTestServer(server.SetupRoutes(hub))
	defer testServer.Close()

	wsURL := testhelpers.WebSocketURL(testServer.URL)

	if _, err := testhelpers.ConnectWebSocket(wsURL, "http://intruder.example"); err == nil {
		t.Fatal("Expected handshake to fail for disallowed origin")
	}

	if conn, err := testhelpers.ConnectWebSocket(wsURL, "http://allowed.example"); err != nil {
		t.Fatalf("Expected handshake to succeed for allowed origin: %v", err)
	} else {
		_ = conn.Close()
	}
}
