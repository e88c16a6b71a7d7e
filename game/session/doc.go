// Package session provides session management for Square Dash.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns an engine.Run over the level pack it was created
// with, plus creation and last access times.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with a live session.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session on the first level of the pack
//	sess, err := manager.Create("", pack, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//
// Sessions are kept in memory only. Progress does not survive a restart of
// the server; CleanupExpiredSessions drops sessions idle for too long.
package session
