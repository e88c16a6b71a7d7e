// Package config provides level file management for Square Dash.
//
// The config package handles:
//   - Loading level definitions from JSON files
//   - Level validation before use and before saving
//   - Level discovery, listing and pack ordering
//
// Level Format:
//
// Levels are stored as JSON files in the levels directory. Each level defines:
//   - A text grid: ' ' outside, 'M' normal, '1'..'5' safe (respawn rank), 'F' end
//   - Player respawn points, one per safe rank, as [row, col] grid points
//   - Coin positions
//   - Linear (patrolling) and radial (orbiting) enemies
//
// Level Pack:
//
// The pack is every valid level file in lexical file name order, so
// prefixing file names with a number ("01_first_steps.json") fixes the play
// order. When no valid level exists a built-in default level is used.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific level
//	def, err := manager.LoadLevel("01_first_steps")
//
//	// The ordered pack sessions play through
//	pack, err := manager.Pack()
//
// Loaded levels are cached. RefreshCache forces a reload from disk and is
// reached through POST /api/levels/reload.
package config
