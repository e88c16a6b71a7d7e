// Package websocket provides WebSocket transport for Square Dash.
//
// The websocket package implements:
//   - Session-scoped fan-out of run state updates
//   - Game event notifications (deaths, coins, finished levels)
//   - Ping/pong keepalive and connection cleanup
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns every
// client registration. Only the hub's Run loop touches the client table;
// broadcasts are queued on a buffered channel and delivered from there.
// Each client has a read pump (keepalive, close detection) and a write
// pump (queued messages, periodic pings).
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//   - {"session_id": "ab12", "event": "state_update", "state": {...}}
//   - {"session_id": "ab12", "event": "game_event", "data": {...}}
//
// Subscribers only watch. Input is sent through the REST API, which
// broadcasts the resulting state to every subscriber of the session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
