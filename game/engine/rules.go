package engine

import (
	"fmt"
)

// Violation is an unattended predator/prey pair on one bank
type Violation struct {
	Bank     Bank   `json:"bank"`
	Predator Entity `json:"predator"`
	Prey     Entity `json:"prey"`
}

// Code returns the outcome code for the violation
func (v Violation) Code() string {
	if v.Predator == Wolf {
		return OutcomeWolfAteGoat
	}
	return OutcomeGoatAteCabbage
}

// Reason returns the pack message describing the violation
func (v Violation) Reason(pack *GamePack) string {
	if pack == nil {
		pack = DefaultGamePack()
	}
	if v.Predator == Wolf {
		return pack.Messages.WolfAteGoat
	}
	return pack.Messages.GoatAteCabbage
}

// predation pairs in evaluation order
var predation = []struct{ predator, prey Entity }{
	{Wolf, Goat},
	{Goat, Cabbage},
}

// CheckFailure evaluates the predation rule on both banks, left first.
// A bank holding the person is safe; on an unattended bank wolf+goat is
// checked before goat+cabbage and the first violation found is returned.
func CheckFailure(gs *GameState) (Violation, bool) {
	for _, bank := range []Bank{Left, Right} {
		if v, ok := unattendedViolation(gs.Locations, bank); ok {
			return v, true
		}
	}
	return Violation{}, false
}

func unattendedViolation(locations map[Entity]Bank, bank Bank) (Violation, bool) {
	if locations[Person] == bank {
		return Violation{}, false
	}
	for _, p := range predation {
		if locations[p.predator] == bank && locations[p.prey] == bank {
			return Violation{Bank: bank, Predator: p.predator, Prey: p.prey}, true
		}
	}
	return Violation{}, false
}

// CheckVictory reports whether all four entities stand on the right bank
func CheckVictory(gs *GameState) bool {
	for _, e := range AllEntities() {
		if gs.Locations[e] != Right {
			return false
		}
	}
	return true
}

// CanBoard reports whether cargo may be boarded or disembarked right now
func CanBoard(gs *GameState, c Cargo) bool {
	if gs.Phase != InProgress || !c.IsSet() || !c.Valid() {
		return false
	}
	if gs.Locations[c.Entity()] != gs.BoatPosition {
		return false
	}
	return gs.BoatPassenger == NoCargo || gs.BoatPassenger == c
}

// CanMoveBoat reports whether the boat may cross right now
func CanMoveBoat(gs *GameState) bool {
	return gs.Phase == InProgress && gs.Locations[Person] == gs.BoatPosition
}

// ValidateState checks the state invariants; used before restoring a
// persisted state.
func ValidateState(gs *GameState) error {
	if gs == nil {
		return fmt.Errorf("state validation: state is nil")
	}
	if len(gs.Locations) != len(AllEntities()) {
		return fmt.Errorf("state validation: expected %d locations, got %d", len(AllEntities()), len(gs.Locations))
	}
	for _, e := range AllEntities() {
		bank, ok := gs.Locations[e]
		if !ok {
			return fmt.Errorf("state validation: missing location for %s", e)
		}
		if !bank.Valid() {
			return fmt.Errorf("state validation: %s is on invalid bank %q", e, bank)
		}
	}
	if !gs.BoatPosition.Valid() {
		return fmt.Errorf("state validation: invalid boat position %q", gs.BoatPosition)
	}
	if !gs.BoatPassenger.Valid() {
		return fmt.Errorf("state validation: invalid passenger %q", gs.BoatPassenger)
	}
	if gs.BoatPassenger.IsSet() && gs.Locations[gs.BoatPassenger.Entity()] != gs.BoatPosition {
		return fmt.Errorf("state validation: passenger %s is not on the boat's bank", gs.BoatPassenger)
	}

	switch gs.Phase {
	case InProgress:
		if gs.OutcomeReason != "" {
			return fmt.Errorf("state validation: outcome reason set while in progress")
		}
	case Won, Lost:
		if gs.OutcomeReason == "" {
			return fmt.Errorf("state validation: outcome reason missing for phase %s", gs.Phase)
		}
	default:
		return fmt.Errorf("state validation: unknown phase %q", gs.Phase)
	}
	return nil
}
