package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/river-crossing-game/api"
	"github.com/wricardo/river-crossing-game/game/config"
	"github.com/wricardo/river-crossing-game/game/engine"
	"github.com/wricardo/river-crossing-game/game/service"
	"github.com/wricardo/river-crossing-game/game/session"
	"github.com/wricardo/river-crossing-game/transport/websocket"
)

// newTestAPI serves the real REST API over httptest
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	configs, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	hub := websocket.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	gameService := service.NewGameService(session.NewManager(), configs, nil)
	server := httptest.NewServer(api.NewServer(gameService, hub, nil))
	t.Cleanup(server.Close)
	return server
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()

	var request mcp.CallToolRequest
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Handler returned an empty result")
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func createSession(t *testing.T, client *Client, configID string) string {
	t.Helper()

	var info service.SessionInfo
	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}
	if err := client.apiCall(context.Background(), "POST", "/api/sessions", body, &info); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	var result map[string]string
	if err := client.apiCall(ctx, "POST", "/ok", map[string]string{}, &result); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", result)
	}

	err := client.apiCall(ctx, "GET", "/missing", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("Expected the API error message, got %v", err)
	}

	err = client.apiCall(ctx, "GET", "/broken", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected a status code error, got %v", err)
	}
}

func TestClient_CreateAndGetSession(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)

	text, isErr := callTool(t, client.handleCreateSession, map[string]interface{}{"config_id": "korean"})
	if isErr {
		t.Fatalf("create_session failed: %s", text)
	}
	if !strings.Contains(text, "Created session:") || !strings.Contains(text, "Pack: korean") {
		t.Errorf("Unexpected create_session output: %s", text)
	}
	if !strings.Contains(text, "양") {
		t.Errorf("Expected pack labels in the rendered banks: %s", text)
	}

	sessionID := createSession(t, client, "")
	text, isErr = callTool(t, client.handleGetSession, map[string]interface{}{"session_id": sessionID})
	if isErr {
		t.Fatalf("get_session failed: %s", text)
	}
	if !strings.Contains(text, "Session: "+sessionID) {
		t.Errorf("Expected session id in output: %s", text)
	}

	text, _ = callTool(t, client.handleListSessions, nil)
	if !strings.Contains(text, "Active Sessions (2)") || !strings.Contains(text, sessionID) {
		t.Errorf("Unexpected list_sessions output: %s", text)
	}
}

func TestClient_UnknownConfig(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)

	text, isErr := callTool(t, client.handleCreateSession, map[string]interface{}{"config_id": "martian"})
	if !isErr {
		t.Fatalf("Expected an error result, got: %s", text)
	}
	if !strings.Contains(text, "martian") {
		t.Errorf("Expected the config name in the error: %s", text)
	}
}

func TestClient_GameState(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)
	sessionID := createSession(t, client, "")

	text, isErr := callTool(t, client.handleGameState, map[string]interface{}{"session_id": sessionID})
	if isErr {
		t.Fatalf("game_state failed: %s", text)
	}

	for _, want := range []string{"Phase: in_progress", "Left bank:  Farmer", "Right bank: (empty)", "Boat: left bank, passenger: empty", "toggle:goat"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in game_state output:\n%s", want, text)
		}
	}

	_, isErr = callTool(t, client.handleGameState, map[string]interface{}{"session_id": "nope"})
	if !isErr {
		t.Error("Expected an error result for an unknown session")
	}
}

func TestClient_ToggleBoardAndMoveBoat(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)
	sessionID := createSession(t, client, "")

	text, _ := callTool(t, client.handleToggleBoard, map[string]interface{}{
		"session_id": sessionID,
		"entity":     "goat",
		"intent":     "the goat cannot stay with either of the others",
	})
	if !strings.Contains(text, "✓") || !strings.Contains(text, "passenger: goat") {
		t.Errorf("Unexpected toggle_board output: %s", text)
	}

	text, _ = callTool(t, client.handleMoveBoat, map[string]interface{}{
		"session_id": sessionID,
		"intent":     "ferry the goat across",
	})
	if !strings.Contains(text, "Boat: right bank") || !strings.Contains(text, "Crossings: 1") {
		t.Errorf("Unexpected move_boat output: %s", text)
	}

	text, _ = callTool(t, client.handleMoveBoat, map[string]interface{}{
		"session_id": sessionID,
		"to":         "right",
		"intent":     "check the guard",
	})
	if !strings.Contains(text, engine.CodeBoatAlreadyThere) {
		t.Errorf("Expected %s rejection, got: %s", engine.CodeBoatAlreadyThere, text)
	}
}

func TestClient_ActRejection(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)
	sessionID := createSession(t, client, "")

	text, isErr := callTool(t, client.handleAct, map[string]interface{}{
		"session_id": sessionID,
		"action":     "cross",
	})
	if isErr {
		t.Fatalf("A rejected action is not a tool error: %s", text)
	}
	if !strings.Contains(text, "💀 GAME OVER") {
		t.Errorf("Crossing alone should lose the game: %s", text)
	}

	text, _ = callTool(t, client.handleAct, map[string]interface{}{
		"session_id": sessionID,
		"action":     "toggle:goat",
	})
	if !strings.Contains(text, engine.CodeGameOver) {
		t.Errorf("Expected %s rejection, got: %s", engine.CodeGameOver, text)
	}

	text, _ = callTool(t, client.handleAct, map[string]interface{}{
		"session_id": sessionID,
		"action":     "toggle:goat",
		"reset":      true,
	})
	if !strings.Contains(text, "✓ toggle:goat") {
		t.Errorf("Expected the reset to allow the action: %s", text)
	}
}

func TestClient_BulkActWin(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)
	sessionID := createSession(t, client, "")

	// Passengers step ashore when the boat lands
	actions := []interface{}{
		"toggle:goat", "cross",
		"cross",
		"toggle:wolf", "cross",
		"toggle:goat", "cross",
		"toggle:cabbage", "cross",
		"cross",
		"toggle:goat", "cross",
	}

	text, isErr := callTool(t, client.handleBulkAct, map[string]interface{}{
		"session_id": sessionID,
		"actions":    actions,
		"intent":     "classic seven crossing solution",
	})
	if isErr {
		t.Fatalf("bulk_act failed: %s", text)
	}
	if !strings.Contains(text, "🎉 VICTORY!") {
		t.Errorf("Expected a win: %s", text)
	}
	if !strings.Contains(text, "Steps (this call):") {
		t.Errorf("Expected the step trace: %s", text)
	}
}

func TestClient_BulkActStopsOnRejection(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)
	sessionID := createSession(t, client, "")

	text, _ := callTool(t, client.handleBulkAct, map[string]interface{}{
		"session_id": sessionID,
		"actions":    []interface{}{"toggle:goat", "toggle:wolf", "cross"},
		"intent":     "try to overload the boat",
	})
	if !strings.Contains(text, "Executed 1/3 actions") {
		t.Errorf("Expected the bulk call to stop at the second action: %s", text)
	}
	if !strings.Contains(text, "Stopped on action 2") {
		t.Errorf("Expected the stop index: %s", text)
	}
}

func TestClient_ResetAndHistory(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)
	sessionID := createSession(t, client, "")

	callTool(t, client.handleToggleBoard, map[string]interface{}{"session_id": sessionID, "entity": "goat", "intent": "board"})
	callTool(t, client.handleMoveBoat, map[string]interface{}{"session_id": sessionID, "intent": "cross"})

	text, isErr := callTool(t, client.handleReset, map[string]interface{}{"session_id": sessionID})
	if isErr {
		t.Fatalf("reset_game failed: %s", text)
	}
	if !strings.Contains(text, "Boat: left bank") || !strings.Contains(text, "Crossings: 0") {
		t.Errorf("Expected the initial state after reset: %s", text)
	}

	text, isErr = callTool(t, client.handleActionHistory, map[string]interface{}{
		"session_id": sessionID,
		"page":       float64(1),
		"limit":      float64(1),
		"order":      "asc",
	})
	if isErr {
		t.Fatalf("action_history failed: %s", text)
	}
	if !strings.Contains(text, "Total: 2 actions") {
		t.Errorf("History should survive the reset: %s", text)
	}
	if !strings.Contains(text, "#1 toggle:goat") || !strings.Contains(text, "more on the next page") {
		t.Errorf("Unexpected history page: %s", text)
	}
}

func TestClient_ListConfigsAndInstructions(t *testing.T) {
	server := newTestAPI(t)
	client := NewClient(server.URL)

	text, isErr := callTool(t, client.handleListConfigs, nil)
	if isErr {
		t.Fatalf("list_configs failed: %s", text)
	}
	if !strings.Contains(text, "classic") || !strings.Contains(text, "korean") {
		t.Errorf("Expected both packs listed: %s", text)
	}

	text, _ = callTool(t, client.handleGameInstructions, nil)
	for _, want := range []string{"wolf eats the goat", "goat eats the cabbage", "toggle:<entity>", "boat_already_there"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in the instructions", want)
		}
	}
}

func TestFormatSnapshotNil(t *testing.T) {
	if got := formatSnapshot(nil, nil); got != "No game state available" {
		t.Errorf("Unexpected output for nil snapshot: %s", got)
	}
}
