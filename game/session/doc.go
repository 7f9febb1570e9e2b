// Package session provides session management for the river crossing game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Optional JSON file persistence
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager stores sessions in memory keyed by lower-cased ID. Each session
// owns its own engine, so moves in one game never touch another.
// FilePersistence writes one JSON document per session holding the game
// state, the cumulative history and the current action segment.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Caller-supplied IDs
// may use letters, digits, '-' and '_' so they are always safe file names.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManagerWithPersistence(persistence, session.WithLogger(logger))
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", "classic", configMgr.GetDefault())
//	if err != nil {
//		return err
//	}
//	sess.Engine.ToggleBoard(engine.Goat)
//	manager.Save(sess.ID)
package session
