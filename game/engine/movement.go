package engine

import (
	"fmt"
)

// ToggleBoard boards cargo onto the boat, or disembarks it when it is
// already the passenger. Locations never change here.
func (gs *GameState) ToggleBoard(e Entity, pack *GamePack) error {
	if pack == nil {
		pack = DefaultGamePack()
	}
	action := "toggle:" + string(e)

	if gs.Phase.IsTerminal() {
		return invalid(action, CodeGameOver, pack.Messages.GameOver)
	}
	if e == Person {
		return invalid(action, CodePersonNotBoardable, pack.Messages.PersonNotBoardable)
	}
	c, ok := CargoOf(e)
	if !ok {
		return invalid(action, CodeUnknownEntity, fmt.Sprintf("unknown entity %q", e))
	}
	if !CanBoard(gs, c) {
		code := CodeNotAtBoat
		if gs.Locations[e] == gs.BoatPosition {
			code = CodePassengerSlotTaken
		}
		return invalid(action, code, pack.Messages.CannotBoard)
	}

	if gs.BoatPassenger == c {
		gs.BoatPassenger = NoCargo
		gs.Message = fmt.Sprintf(pack.Messages.Disembarked, pack.Label(e))
		return nil
	}
	gs.BoatPassenger = c
	gs.Message = fmt.Sprintf(pack.Messages.Boarded, pack.Label(e))
	return nil
}

// Board boards cargo; it fails when the cargo is already aboard
func (gs *GameState) Board(e Entity, pack *GamePack) error {
	if pack == nil {
		pack = DefaultGamePack()
	}
	if c, ok := CargoOf(e); ok && gs.Phase == InProgress && gs.BoatPassenger == c {
		return invalid("board:"+string(e), CodeAlreadyAboard, fmt.Sprintf(pack.Messages.AlreadyAboard, pack.Label(e)))
	}
	return gs.ToggleBoard(e, pack)
}

// Disembark takes cargo off the boat; it fails when the cargo is not aboard
func (gs *GameState) Disembark(e Entity, pack *GamePack) error {
	if pack == nil {
		pack = DefaultGamePack()
	}
	if c, ok := CargoOf(e); ok && gs.Phase == InProgress && gs.BoatPassenger != c {
		return invalid("disembark:"+string(e), CodeNotAboard, fmt.Sprintf(pack.Messages.NotAboard, pack.Label(e)))
	}
	return gs.ToggleBoard(e, pack)
}

// MoveBoat ferries the person (and the passenger, if any) to the other
// bank, then evaluates the failure rule and the victory rule in that order.
func (gs *GameState) MoveBoat(pack *GamePack) error {
	if pack == nil {
		pack = DefaultGamePack()
	}
	const action = "cross"

	if gs.Phase.IsTerminal() {
		return invalid(action, CodeGameOver, pack.Messages.GameOver)
	}
	if gs.Locations[Person] != gs.BoatPosition {
		return invalid(action, CodePersonNotAtBoat, pack.Messages.PersonNotAtBoat)
	}

	gs.BoatPosition = gs.BoatPosition.Opposite()
	gs.Locations[Person] = gs.BoatPosition
	if gs.BoatPassenger.IsSet() {
		gs.Locations[gs.BoatPassenger.Entity()] = gs.BoatPosition
		gs.BoatPassenger = NoCargo
	}
	gs.Crossings++
	gs.Message = fmt.Sprintf(pack.Messages.Crossed, string(gs.BoatPosition))

	if v, failed := CheckFailure(gs); failed {
		gs.Phase = Lost
		gs.OutcomeCode = v.Code()
		gs.OutcomeReason = v.Reason(pack)
		gs.Message = gs.OutcomeReason
		return nil
	}

	if CheckVictory(gs) {
		gs.Phase = Won
		gs.OutcomeCode = OutcomeAllCrossed
		gs.OutcomeReason = pack.Messages.Victory
		gs.Message = gs.OutcomeReason
	}
	return nil
}

// MoveBoatTo crosses only if the boat is on the other bank
func (gs *GameState) MoveBoatTo(to Bank, pack *GamePack) error {
	if pack == nil {
		pack = DefaultGamePack()
	}
	action := "cross:" + string(to)
	if !to.Valid() {
		return invalid(action, CodeUnknownAction, fmt.Sprintf("unknown bank %q", to))
	}
	if gs.Phase.IsTerminal() {
		return invalid(action, CodeGameOver, pack.Messages.GameOver)
	}
	if gs.BoatPosition == to {
		return invalid(action, CodeBoatAlreadyThere, pack.Messages.BoatAlreadyThere)
	}
	return gs.MoveBoat(pack)
}
