// Package service provides the business logic layer for Square Dash.
//
// The service package implements:
//   - Multi-session run management
//   - Level pack loading and level file management
//   - Frame stepping with held-key input and event extraction
//   - Pause, resume and restart of a session's run
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager loads, lists and saves level files and builds the level pack.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns an engine.Run over its own copy of the
// level pack, so sessions never share entities. The engine has no clock:
// callers decide how many frames a Step call simulates, up to MaxStepFrames.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, levelMgr)
//
//	// Create a new session on the first level
//	info, err := gameService.CreateSession(ctx, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Hold right for one second of play
//	result, err := gameService.Step(ctx, info.ID, []string{"right"}, 60)
//
// Events:
//
// Step results list what happened frame by frame: death, coin,
// level_finished and completed. Restart, pause and resume are reported
// as events by the transports that broadcast them.
package service
