package engine

import (
	"fmt"
	"strings"
)

// ActionKind enumerates the textual player commands
type ActionKind string

const (
	ActionToggle    ActionKind = "toggle"
	ActionBoard     ActionKind = "board"
	ActionDisembark ActionKind = "disembark"
	ActionCross     ActionKind = "cross"
)

// Action is a parsed player command. Entity is set for toggle, board and
// disembark; To is optional for cross.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Entity Entity     `json:"entity,omitempty"`
	To     Bank       `json:"to,omitempty"`
}

// String renders the action in its canonical textual form
func (a Action) String() string {
	switch a.Kind {
	case ActionCross:
		if a.To != "" {
			return "cross:" + string(a.To)
		}
		return "cross"
	default:
		return string(a.Kind) + ":" + string(a.Entity)
	}
}

// ParseAction parses "cross", "move", "cross:left", "toggle:goat",
// "board goat", "disembark:wolf" and so on.
func ParseAction(text string) (Action, error) {
	raw := strings.ToLower(strings.TrimSpace(text))
	verb, arg, _ := strings.Cut(strings.Replace(raw, " ", ":", 1), ":")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "cross", "move":
		if arg == "" {
			return Action{Kind: ActionCross}, nil
		}
		to, err := ParseBank(arg)
		if err != nil {
			return Action{}, invalid(text, CodeUnknownAction, err.Error())
		}
		return Action{Kind: ActionCross, To: to}, nil

	case string(ActionToggle), string(ActionBoard), string(ActionDisembark):
		e, err := ParseEntity(arg)
		if err != nil {
			return Action{}, invalid(text, CodeUnknownEntity, err.Error())
		}
		return Action{Kind: ActionKind(verb), Entity: e}, nil
	}

	return Action{}, invalid(text, CodeUnknownAction, fmt.Sprintf("unknown action %q", text))
}

// Apply executes a parsed action against the state
func (gs *GameState) Apply(a Action, pack *GamePack) error {
	switch a.Kind {
	case ActionToggle:
		return gs.ToggleBoard(a.Entity, pack)
	case ActionBoard:
		return gs.Board(a.Entity, pack)
	case ActionDisembark:
		return gs.Disembark(a.Entity, pack)
	case ActionCross:
		if a.To != "" {
			return gs.MoveBoatTo(a.To, pack)
		}
		return gs.MoveBoat(pack)
	}
	msg := "unknown action"
	if pack != nil && pack.Messages.UnknownAction != "" {
		msg = pack.Messages.UnknownAction
	}
	return invalid(a.String(), CodeUnknownAction, msg)
}
