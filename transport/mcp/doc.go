// Package mcp provides a Model Context Protocol server for Square Dash.
//
// The server is a thin proxy: every tool call becomes a REST API request
// and the JSON response is rendered as text an AI agent can read.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Start a new run, optionally on a given level
//   - list_sessions: List all active sessions
//   - get_session: Get specific session details
//   - game_state: Board, player, enemies and coins of the current level
//   - step: Hold keys for a number of frames
//   - pause, resume, restart: Control a run
//   - list_levels: The level pack in play order
//   - describe_cell: Kind and occupants of a single grid cell
//   - game_instructions: Full rules
//
// Board rendering:
//
// game_state draws the level one character per cell: P for the player,
// E for enemies, o for coins not yet taken, F for end cells, digits for
// checkpoints, '.' for normal cells and '#' for outside. A cell holding
// several entities shows the player first, then enemies, then coins.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: The /mcp endpoint of the main server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
