// Package mcp exposes the River Crossing Game to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON reply is rendered as plain text.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: banks, boat, phase, threat and possible actions
//   - toggle_board: board or disembark the wolf, goat or cabbage
//   - move_boat: cross the river, optionally naming the destination bank
//   - act, bulk_act: textual actions such as "toggle:goat" or "cross:right"
//   - reset_game, action_history: restart and review past actions
//   - list_configs, game_instructions: packs and rules
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp, handled by the main server via HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
