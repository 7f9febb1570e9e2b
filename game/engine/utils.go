package engine

import (
	"fmt"
)

// Occupants lists the entities standing on a bank, in display order
func Occupants(gs *GameState, bank Bank) []Entity {
	occupants := []Entity{}
	for _, e := range AllEntities() {
		if gs.Locations[e] == bank {
			occupants = append(occupants, e)
		}
	}
	return occupants
}

// Banks builds the per-bank view of a state
func Banks(gs *GameState) BankView {
	return BankView{
		Left:          Occupants(gs, Left),
		Right:         Occupants(gs, Right),
		BoatPosition:  gs.BoatPosition,
		BoatPassenger: gs.BoatPassenger,
	}
}

// PossibleActions returns every action that would be accepted right now
func PossibleActions(gs *GameState) []string {
	possible := []string{}
	if gs.Phase != InProgress {
		return possible
	}
	for _, c := range AllCargo() {
		if CanBoard(gs, c) {
			possible = append(possible, Action{Kind: ActionToggle, Entity: c.Entity()}.String())
		}
	}
	if CanMoveBoat(gs) {
		possible = append(possible, Action{Kind: ActionCross}.String())
	}
	return possible
}

// ThreatIfCrossing reports the violation that crossing now, with the
// current passenger, would cause.
func ThreatIfCrossing(gs *GameState) (Violation, bool) {
	if !CanMoveBoat(gs) {
		return Violation{}, false
	}
	next := gs.Clone()
	next.BoatPosition = next.BoatPosition.Opposite()
	next.Locations[Person] = next.BoatPosition
	if next.BoatPassenger.IsSet() {
		next.Locations[next.BoatPassenger.Entity()] = next.BoatPosition
		next.BoatPassenger = NoCargo
	}
	return CheckFailure(next)
}

// DescribeThreat renders ThreatIfCrossing for display, or "" when safe
func DescribeThreat(gs *GameState, pack *GamePack) string {
	v, ok := ThreatIfCrossing(gs)
	if !ok {
		return ""
	}
	if pack == nil {
		pack = DefaultGamePack()
	}
	return fmt.Sprintf(pack.Messages.Threat, pack.Label(v.Predator), pack.Label(v.Prey), string(v.Bank))
}

// CountAtBank counts the entities standing on a bank
func CountAtBank(gs *GameState, bank Bank) int {
	return len(Occupants(gs, bank))
}
