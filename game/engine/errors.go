package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is the umbrella error for rejected player actions.
// A rejected action never changes the game state.
var ErrInvalidAction = errors.New("invalid action")

// Reason codes carried by ActionError
const (
	CodeGameOver           = "game_over"
	CodeNotAtBoat          = "not_at_boat"
	CodePassengerSlotTaken = "passenger_slot_taken"
	CodePersonNotBoardable = "person_not_boardable"
	CodePersonNotAtBoat    = "person_not_at_boat"
	CodeBoatAlreadyThere   = "boat_already_there"
	CodeAlreadyAboard      = "already_aboard"
	CodeNotAboard          = "not_aboard"
	CodeUnknownEntity      = "unknown_entity"
	CodeUnknownAction      = "unknown_action"
)

// ActionError describes why an action was rejected
type ActionError struct {
	Action  string
	Code    string
	Message string
}

func (e *ActionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s (%s)", ErrInvalidAction, e.Action, e.Code)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidAction, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidAction
func (e *ActionError) Unwrap() error {
	return ErrInvalidAction
}

func invalid(action, code, message string) *ActionError {
	return &ActionError{Action: action, Code: code, Message: message}
}

// ActionErrorCode extracts the reason code from err, or "" when err is not
// an ActionError.
func ActionErrorCode(err error) string {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
