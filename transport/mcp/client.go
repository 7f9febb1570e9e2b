package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/river-crossing-game/game/engine"
	"github.com/wricardo/river-crossing-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"River Crossing Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`River Crossing Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Ferry the farmer, the wolf, the goat and the cabbage from the left bank to
the right bank. The boat holds the farmer plus at most one passenger.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get current banks, boat and possible actions
- toggle_board: Board or disembark the wolf, goat or cabbage - requires intent explanation
- move_boat: Cross the river - requires intent explanation
- act: Any single textual action (toggle:goat, board:wolf, disembark:cabbage, cross, cross:right)
- bulk_act: Several actions at once - requires intent explanation
- reset_game: Reset to initial state
- action_history: View past actions
- list_configs: List available message packs
- game_instructions: Get the complete rules

NOTE: The 'intent' parameter serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intentProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Explain why you are doing this (which pair you are keeping apart)",
	}
}

func resetProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Reset the game before acting (optional)",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with an optional message pack",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Pack to use, e.g. classic or korean (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current banks, boat position, phase and possible actions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_board",
		Description: "Board an entity if it is ashore next to the boat, or disembark it if it is the passenger",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"entity": map[string]interface{}{
					"type":        "string",
					"description": "Entity to board or disembark",
					"enum":        []string{"wolf", "goat", "cabbage"},
				},
				"intent": intentProperty(),
			},
			Required: []string{"session_id", "entity", "intent"},
		},
	}, c.handleToggleBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_boat",
		Description: "Cross the river with the farmer and the current passenger",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Destination bank (optional; rejected if the boat is already there)",
					"enum":        []string{"left", "right"},
				},
				"intent": intentProperty(),
			},
			Required: []string{"session_id", "intent"},
		},
	}, c.handleMoveBoat)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "act",
		Description: "Execute one textual action: toggle:<entity>, board:<entity>, disembark:<entity>, cross or cross:<bank>",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"action": map[string]interface{}{
					"type":        "string",
					"description": "Action to execute",
				},
				"reset": resetProperty(),
			},
			Required: []string{"session_id", "action"},
		},
	}, c.handleAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_act",
		Description: fmt.Sprintf("Execute up to %d actions in order, stopping at the first rejected one or when the game ends", engine.MaxBulkActions),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"actions": map[string]interface{}{
					"type":        "array",
					"description": "Actions to execute, e.g. [\"toggle:goat\", \"cross\"]",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"intent": intentProperty(),
				"reset":  resetProperty(),
			},
			Required: []string{"session_id", "actions", "intent"},
		},
	}, c.handleBulkAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get the paginated action history of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": fmt.Sprintf("Actions per page (default 20, max %d)", engine.MaxHistoryPageSize),
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc or desc (default desc)",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available message packs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules and action syntax",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nPack: %s\n\n%s",
		session.ID, session.PackID, formatSnapshot(&session.Snapshot, session.Pack))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Pack: %s, Phase: %s, Crossings: %d, Created: %s)\n",
			s.ID, s.PackID, phaseOf(&s.Snapshot), crossingsOf(&s.Snapshot), s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	// The session carries the pack, so labels render in its language
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&session.Snapshot, session.Pack)), nil
}

func (c *Client) handleToggleBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	entity, _ := args["entity"].(string)

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/board"), map[string]string{"entity": entity}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleMoveBoat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	to, _ := args["to"].(string)

	body := map[string]string{}
	if to != "" {
		body["to"] = to
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/cross"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	action, _ := args["action"].(string)
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"action": action,
		"reset":  reset,
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/action"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleBulkAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	actionsRaw, _ := args["actions"].([]interface{})
	reset, _ := args["reset"].(bool)

	actions := make([]string, 0, len(actionsRaw))
	for _, a := range actionsRaw {
		if action, ok := a.(string); ok {
			actions = append(actions, action)
		}
	}

	body := map[string]interface{}{
		"actions": actions,
		"reset":   reset,
	}

	var result service.BulkActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-actions"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkActionResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message  string           `json:"message"`
		Snapshot *engine.Snapshot `json:"snapshot"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatSnapshot(response.Snapshot, nil))), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.PackInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Packs:\n\n")
	for _, p := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n\n", p.ConfigID, p.Language, p.Description)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `River Crossing Game - Complete Instructions

GAME OBJECTIVE:
Move the farmer, the wolf, the goat and the cabbage from the left bank to the
right bank.

RULES:
• The boat always carries the farmer and at most one passenger.
• Only the farmer rows. The boat cannot cross without him.
• A passenger can board only from the bank where the boat is moored.
• The passenger steps ashore automatically when the boat lands.
• Left on a bank without the farmer, the wolf eats the goat.
• Left on a bank without the farmer, the goat eats the cabbage.
• The game is won when all four stand on the right bank.
• Once won or lost the game accepts no more actions until it is reset.

ACTIONS (act / bulk_act):
• toggle:<entity> - board if ashore next to the boat, disembark if aboard
• board:<entity> - board only
• disembark:<entity> - disembark only
• cross - move the boat to the other bank
• cross:<left|right> - cross, rejected if the boat is already there
Entities: wolf, goat, cabbage.

REJECTION CODES:
• not_at_boat - the entity is on the other bank
• passenger_slot_taken - someone else is aboard
• person_not_boardable - the farmer cannot be a passenger
• person_not_at_boat - the farmer is not with the boat
• boat_already_there - cross:<bank> named the current bank
• already_aboard / not_aboard - strict board or disembark mismatch
• game_over - the game has ended, reset to play again

STRATEGY:
The goat is the troublemaker: it must never be left alone with the wolf
or the cabbage. Read the "Danger if you cross now" line of the state
before every crossing.`

// Formatting helpers

func phaseOf(snap *engine.Snapshot) engine.Phase {
	if snap == nil || snap.State == nil {
		return ""
	}
	return snap.State.Phase
}

func crossingsOf(snap *engine.Snapshot) int {
	if snap == nil || snap.State == nil {
		return 0
	}
	return snap.State.Crossings
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nPack: %s\nCreated: %s\n\n%s",
		session.ID, session.PackID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(&session.Snapshot, session.Pack))
}

func formatEntities(entities []engine.Entity, pack *engine.GamePack) string {
	if len(entities) == 0 {
		return "(empty)"
	}
	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = pack.Label(e)
	}
	return strings.Join(names, ", ")
}

func formatSnapshot(snap *engine.Snapshot, pack *engine.GamePack) string {
	if snap == nil || snap.State == nil {
		return "No game state available"
	}
	state := snap.State

	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s | Crossings: %d\n\n", state.Phase, state.Crossings)

	fmt.Fprintf(&b, "Left bank:  %s\n", formatEntities(snap.Banks.Left, pack))
	fmt.Fprintf(&b, "Right bank: %s\n", formatEntities(snap.Banks.Right, pack))

	passenger := "empty"
	if state.BoatPassenger != engine.NoCargo {
		passenger = pack.Label(state.BoatPassenger.Entity())
	}
	fmt.Fprintf(&b, "Boat: %s bank, passenger: %s\n", state.BoatPosition, passenger)

	if snap.Threat != "" {
		fmt.Fprintf(&b, "Danger if you cross now: %s\n", snap.Threat)
	}
	if len(snap.PossibleActions) > 0 {
		fmt.Fprintf(&b, "Possible actions: %s\n", strings.Join(snap.PossibleActions, ","))
	}

	switch state.Phase {
	case engine.Won:
		b.WriteString("\n🎉 VICTORY!")
	case engine.Lost:
		fmt.Fprintf(&b, "\n💀 GAME OVER (%s)", state.OutcomeCode)
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatEvents(b *strings.Builder, events []service.GameEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s: %s\n", event.Type, event.Message)
	}
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s\n", result.Action)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected (%s): %s\n", result.Action, result.ErrorCode, result.Message)
	}

	formatEvents(&b, result.Events)

	b.WriteString("\n")
	b.WriteString(formatSnapshot(&result.Snapshot, nil))
	return b.String()
}

func formatBulkActionResult(sessionID string, result *service.BulkActionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d actions\n", result.ActionsExecuted, result.RequestedActions)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d actions\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on action %d: %s\n", result.StoppedOnAction, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\n")
		formatEvents(&b, result.Events)
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(&result.Snapshot, nil))
	return b.String()
}

func formatStepLine(s service.StepInfo) string {
	status := "✓"
	if !s.Success {
		status = "✗ " + s.ErrorCode
	}
	line := fmt.Sprintf("%2d. %-16s boat %s→%s", s.Idx, s.Action, s.BoatFrom, s.BoatTo)
	if s.Passenger != engine.NoCargo {
		line += fmt.Sprintf(" with %s", s.Passenger)
	}
	return fmt.Sprintf("%s %s\n", line, status)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d, Total: %d actions)\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, a := range history.Actions {
		status := "✓"
		if !a.Success {
			status = "✗ " + a.ErrorCode
		}
		fmt.Fprintf(&b, "#%d %s boat %s→%s %s\n", a.ActionNumber, a.Action, a.BoatFrom, a.BoatTo, status)
	}

	if history.HasNext {
		b.WriteString("\n(more on the next page)")
	}
	return b.String()
}
