// Package api provides the HTTP REST API for Square Dash sessions.
//
// The api package implements:
//   - Session management endpoints
//   - Frame stepping with held keys
//   - Pause, resume and restart of a run
//   - Level listing, loading and saving
//   - WebSocket upgrade handling for session watchers
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"level_id": "02_the_ring"} optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current run snapshot
//   - POST /api/sessions/{id}/step - Hold keys for a number of frames
//   - POST /api/sessions/{id}/pause - Freeze the run
//   - POST /api/sessions/{id}/resume - Continue a paused run
//   - POST /api/sessions/{id}/restart - Back to the first level, counters cleared
//
// Levels:
//   - GET /api/levels - List the level pack
//   - GET /api/levels/{name} - Get one level definition
//   - POST /api/levels - Validate and save a level (?level_id= optional)
//   - POST /api/levels/reload - Drop cached levels and re-read the directory
//
// Other:
//   - GET /ws?session={id} - Subscribe to a session's updates
//   - GET /health - Health check naming the service and level count
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Errors are returned as
// {"error": "..."} with 400 for invalid keys or levels, 404 for unknown
// sessions or levels and 500 otherwise.
//
// A step request holds the listed keys for every frame:
//
//	{
//	  "keys": ["right", "down"], // up|down|left|right, or u|d|l|r
//	  "frames": 30               // defaults to 1, capped at 600
//	}
//
// Stepping stops early when the run is paused, a level is finished or the
// pack is completed; stopped_reason in the response says which.
//
// Every step, pause, resume and restart broadcasts its events and the new
// state to the session's WebSocket subscribers.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
