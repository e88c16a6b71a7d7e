package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/squaredash/game/engine"
)

func testState() *engine.RunState {
	return &engine.RunState{
		Status:    engine.StatusRunning,
		Level:     1,
		LevelName: "Ring",
		Deaths:    3,
		Player: engine.PlayerState{
			Position: engine.Vec{X: 75, Y: 25},
		},
	}
}

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// Unregistering twice is harmless
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "multi")
	client2 := newTestClient(hub, "multi")

	hub.registerClient(client1)
	hub.registerClient(client2)
	if len(hub.sessions["multi"]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions["multi"]))
	}

	hub.unregisterClient(client1)
	if len(hub.sessions["multi"]) != 1 || !hub.sessions["multi"][client2] {
		t.Error("Expected client2 to remain registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "abcd")
	other := newTestClient(hub, "ffff")
	hub.registerClient(client)
	hub.registerClient(other)

	// Session IDs match case-insensitively
	hub.broadcastMessage(&Message{SessionID: "ABCD", State: testState(), Event: EventStateUpdate})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %s, got %s", EventStateUpdate, message.Event)
		}
		if message.State == nil || message.State.LevelName != "Ring" || message.State.Deaths != 3 {
			t.Errorf("State not correctly transmitted: %+v", message.State)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Client of another session should not receive the message")
	default:
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(client)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventGame})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Expected blocked client to be unregistered")
	}
}

func TestHubBroadcastQueues(t *testing.T) {
	hub := NewHub()

	// Without a running hub loop, broadcasts queue instead of blocking
	hub.BroadcastToSession("q", testState())
	hub.BroadcastEvent("q", EventGame, map[string]string{"type": "death"})

	first := <-hub.broadcast
	if first.Event != EventStateUpdate || first.State == nil {
		t.Errorf("Unexpected first message %+v", first)
	}
	second := <-hub.broadcast
	if second.Event != EventGame || second.Data == nil {
		t.Errorf("Unexpected second message %+v", second)
	}
}

func dialTestHub(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Give the hub time to register the client
	time.Sleep(50 * time.Millisecond)
	return conn
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestHub(t, hub, "msg-test")
	hub.BroadcastToSession("msg-test", testState())

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.State == nil || message.State.Player.Position != (engine.Vec{X: 75, Y: 25}) {
		t.Error("State position not correctly received")
	}
}

func TestWebSocketEventReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := dialTestHub(t, hub, "evt-test")
	hub.BroadcastEvent("EVT-TEST", EventGame, map[string]any{"type": "coin"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.Event != EventGame || message.Data["type"] != "coin" {
		t.Errorf("Unexpected event message %s", data)
	}
}
