// Package service provides the business logic layer for the river crossing
// game.
//
// GameService sits between the transports (HTTP, WebSocket, MCP) and the
// engine. It resolves sessions, applies actions, derives events from the
// state change and saves the session after every mutation. A rejected
// action is reported in the result with its error code; only a missing
// session or pack is returned as an error.
//
// SessionManager and ConfigManager are the storage seams. The session and
// config packages provide the production implementations.
//
// Usage:
//
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		return err
//	}
//
//	result, err := gameService.BulkAct(ctx, info.ID, []string{"toggle:goat", "cross"}, false)
package service
