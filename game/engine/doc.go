// Package engine provides the rule engine of the river crossing puzzle.
//
// The engine package implements the game mechanics including:
//   - The fixed four entity model (person, wolf, goat, cabbage) and two banks
//   - Boarding and disembarking the single passenger slot
//   - Boat crossings with automatic disembarkation on arrival
//   - The predation rule and the victory rule
//   - Message packs that label entities and word the feedback
//
// Core Types:
//
// GameState is the puzzle state, mutated only through ToggleBoard and
// MoveBoat. CheckFailure, CheckVictory and CanBoard are pure functions of a
// GameState. GameEngine owns one state for one session, records every
// attempted action and tracks the game phase with a statechart.
//
// Usage:
//
//	gameEngine := engine.NewEngineWithDefaults()
//
//	if err := gameEngine.ToggleBoard(engine.Goat); err != nil {
//		log.Println(err)
//	}
//	if err := gameEngine.MoveBoat(); err != nil {
//		log.Println(err)
//	}
//	snapshot := gameEngine.Snapshot()
//
// Game Rules:
//
// The boat carries the person and at most one other entity. Left without
// the person, the wolf eats the goat and the goat eats the cabbage; either
// ends the game immediately. The game is won once all four stand on the
// right bank. Rejected actions return an error wrapping ErrInvalidAction and
// leave the state unchanged.
package engine
