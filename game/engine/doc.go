// Package engine provides the simulation core for Square Dash.
//
// The engine package implements the game mechanics including:
//   - Grid/drawing-space coordinate conversion and cell classification
//   - Merged boundary edges of the playable area
//   - Player movement with wall sliding and checkpoint memory
//   - Patrolling (linear) and orbiting (radial) enemies
//   - Coin pickup, death and level completion resolution
//   - Level definition parsing and validation
//
// Core Types:
//
// Map is the immutable grid of a level. Player, Enemy and Coin are the
// entities that live on it. World bundles one level's entities and advances
// them one frame per Step call. Run drives a pack of levels the way a host
// page would: counting deaths, moving to the next level on completion and
// honoring pause.
//
// Usage:
//
//	def, err := engine.LoadLevelDefinition("levels/01_first_steps.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	world, err := engine.NewWorld(def)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// One frame, right arrow held
//	world.Step(engine.Input{engine.KeyRight: true}, engine.Effects{
//		OnDeath: func() { deaths++ },
//	})
//
// Frame Model:
//
// The engine never schedules anything. Each Step performs the player move,
// every enemy advance and one interaction pass, in that order. Hosts stop
// calling Step to pause; nothing needs tearing down.
package engine
