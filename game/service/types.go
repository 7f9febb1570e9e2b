package service

import (
	"time"

	"github.com/wricardo/river-crossing-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	PackID         string           `json:"pack_id"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Snapshot       engine.Snapshot  `json:"snapshot"`
	Pack           *engine.GamePack `json:"pack"`
}

// ActionResult contains the result of a single action. A rejected action
// is a result with Success=false, not an error.
type ActionResult struct {
	Success   bool            `json:"success"`
	Action    string          `json:"action"`
	ErrorCode string          `json:"error_code,omitempty"`
	Message   string          `json:"message"`
	Snapshot  engine.Snapshot `json:"snapshot"`
	Events    []GameEvent     `json:"events,omitempty"`
}

// BulkActionResult contains the result of several actions run in order
type BulkActionResult struct {
	// Summary
	ActionsExecuted  int             `json:"actions_executed"`
	RequestedActions int             `json:"requested_actions"`
	Success          bool            `json:"success"`
	Snapshot         engine.Snapshot `json:"snapshot"`
	Events           []GameEvent     `json:"events"`
	StoppedReason    string          `json:"stopped_reason,omitempty"`    // Human-readable reason
	StopReasonCode   string          `json:"stop_reason_code,omitempty"`  // Action error code, outcome code or game_over
	StoppedOnAction  int             `json:"stopped_on_action,omitempty"` // 1-based index of the action that caused the stop
	Truncated        bool            `json:"truncated,omitempty"`
	Limit            int             `json:"limit,omitempty"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver        bool     `json:"game_over"`
	OutcomeCode     string   `json:"outcome_code,omitempty"`
	Message         string   `json:"message,omitempty"`
	PossibleActions []string `json:"possible_actions,omitempty"`
	Threat          string   `json:"threat,omitempty"`
}

// StepInfo is a compact record for each action attempted in a bulk call
type StepInfo struct {
	Idx       int          `json:"idx"`
	Action    string       `json:"action"`
	Success   bool         `json:"success"`
	ErrorCode string       `json:"error_code,omitempty"`
	BoatFrom  engine.Bank  `json:"boat_from"`
	BoatTo    engine.Bank  `json:"boat_to"`
	Passenger engine.Cargo `json:"passenger,omitempty"`
	Phase     engine.Phase `json:"phase"`
}

// Event types carried by GameEvent
const (
	EventReset     = "reset"
	EventBoard     = "board"
	EventDisembark = "disembark"
	EventCross     = "cross"
	EventWon       = "won"
	EventLost      = "lost"
	EventInvalid   = "invalid"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Entity    engine.Entity `json:"entity,omitempty"`
	Bank      engine.Bank   `json:"bank,omitempty"`
	Code      string        `json:"code,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionRecord `json:"actions"`
	TotalActions int                   `json:"total_actions"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// PackInfo provides information about a message pack
type PackInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Language    string `json:"language"`
}
