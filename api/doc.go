// Package api provides the HTTP REST API for the river crossing game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (sort, order, limit)
//   - GET /api/sessions/unified - Several sessions at once (sessionIds, packId)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/board - Board or disembark ({"entity": "goat"})
//   - POST /api/sessions/{id}/cross - Move the boat ({"to": "right"} optional)
//   - POST /api/sessions/{id}/action - Textual action ({"action": "toggle:goat"})
//   - POST /api/sessions/{id}/bulk-actions - Several actions ({"actions": [...]})
//   - POST /api/sessions/{id}/reset - Reset to the initial state
//   - GET /api/sessions/{id}/history - Paginated history (page, limit, order)
//
// Message Packs:
//   - GET /api/configs - List packs
//   - POST /api/configs - Save a pack
//   - GET /api/configs/{name} - Get a pack
//
// Other:
//   - GET /api/health - Liveness probe
//   - GET /ws?sessionId={id} - WebSocket state feed
//
// A rejected action is a 200 response with "success": false and an
// error_code such as not_at_boat or game_over. Unknown sessions and packs
// are 404. Every other failure is a JSON error:
//
//	{"error": "error message"}
//
// Successful mutations push the new snapshot to the session's WebSocket
// clients.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server)
package api
