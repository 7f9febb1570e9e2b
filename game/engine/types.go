package engine

import (
	"fmt"
	"strings"
)

// Entity is one of the four fixed puzzle participants
type Entity string

const (
	Person  Entity = "person"
	Wolf    Entity = "wolf"
	Goat    Entity = "goat"
	Cabbage Entity = "cabbage"

	// Validation constants
	MaxBulkActions      = 50
	MaxHistoryPageSize  = 100
	WebSocketBufferSize = 256
)

// AllEntities returns every entity in display order
func AllEntities() []Entity {
	return []Entity{Person, Wolf, Goat, Cabbage}
}

// ParseEntity converts a name into an Entity (case-insensitive)
func ParseEntity(name string) (Entity, error) {
	switch e := Entity(strings.ToLower(strings.TrimSpace(name))); e {
	case Person, Wolf, Goat, Cabbage:
		return e, nil
	}
	return "", fmt.Errorf("unknown entity %q", name)
}

// Cargo is the passenger slot of the boat: one of the three non-person
// entities, or NoCargo when the boat is empty.
type Cargo string

const (
	NoCargo      Cargo = ""
	CargoWolf    Cargo = Cargo(Wolf)
	CargoGoat    Cargo = Cargo(Goat)
	CargoCabbage Cargo = Cargo(Cabbage)
)

// AllCargo returns the three boardable entities
func AllCargo() []Cargo {
	return []Cargo{CargoWolf, CargoGoat, CargoCabbage}
}

// CargoOf converts an entity into a cargo value; the person is never cargo
func CargoOf(e Entity) (Cargo, bool) {
	switch e {
	case Wolf, Goat, Cabbage:
		return Cargo(e), true
	}
	return NoCargo, false
}

// Entity returns the entity carried, or "" for NoCargo
func (c Cargo) Entity() Entity {
	return Entity(c)
}

// IsSet reports whether the slot holds a passenger
func (c Cargo) IsSet() bool {
	return c != NoCargo
}

// Valid reports whether c is NoCargo or one of the boardable entities
func (c Cargo) Valid() bool {
	switch c {
	case NoCargo, CargoWolf, CargoGoat, CargoCabbage:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler
func (c Cargo) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid cargo %q", string(c))
	}
	return []byte(c), nil
}

// UnmarshalText rejects anything outside the closed cargo set
func (c *Cargo) UnmarshalText(text []byte) error {
	v := Cargo(strings.ToLower(string(text)))
	if !v.Valid() {
		return fmt.Errorf("invalid cargo %q", string(text))
	}
	*c = v
	return nil
}

// Bank is one of the two shorelines
type Bank string

const (
	Left  Bank = "left"
	Right Bank = "right"
)

// Opposite returns the other bank
func (b Bank) Opposite() Bank {
	if b == Left {
		return Right
	}
	return Left
}

// Valid reports whether b is left or right
func (b Bank) Valid() bool {
	return b == Left || b == Right
}

// ParseBank converts a name into a Bank (case-insensitive)
func ParseBank(name string) (Bank, error) {
	switch b := Bank(strings.ToLower(strings.TrimSpace(name))); b {
	case Left, Right:
		return b, nil
	}
	return "", fmt.Errorf("unknown bank %q", name)
}

// Phase is the lifecycle stage of a game
type Phase string

const (
	InProgress Phase = "in_progress"
	Won        Phase = "won"
	Lost       Phase = "lost"
)

// IsTerminal reports whether no further action is accepted
func (p Phase) IsTerminal() bool {
	return p == Won || p == Lost
}

// Outcome codes recorded alongside the human readable reason
const (
	OutcomeWolfAteGoat    = "wolf_ate_goat"
	OutcomeGoatAteCabbage = "goat_ate_cabbage"
	OutcomeAllCrossed     = "all_crossed"
)

// GameState is the complete puzzle state. It is only mutated through
// ToggleBoard and MoveBoat (and replaced wholesale by a reset).
type GameState struct {
	Locations     map[Entity]Bank `json:"locations"`
	BoatPosition  Bank            `json:"boat_position"`
	BoatPassenger Cargo           `json:"boat_passenger,omitempty"`
	Phase         Phase           `json:"phase"`
	OutcomeReason string          `json:"outcome_reason,omitempty"`
	OutcomeCode   string          `json:"outcome_code,omitempty"`
	Message       string          `json:"message"`
	Crossings     int             `json:"crossings"`
	PackName      string          `json:"pack_name"`
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	clone := *gs
	clone.Locations = make(map[Entity]Bank, len(gs.Locations))
	for e, b := range gs.Locations {
		clone.Locations[e] = b
	}
	return &clone
}

// ActionRecord is one entry of the action history
type ActionRecord struct {
	ID           string `json:"id"`
	Action       string `json:"action"`
	Cargo        Cargo  `json:"cargo,omitempty"`
	BoatFrom     Bank   `json:"boat_from"`
	BoatTo       Bank   `json:"boat_to"`
	Success      bool   `json:"success"`
	ErrorCode    string `json:"error_code,omitempty"`
	Phase        Phase  `json:"phase"`
	Timestamp    int64  `json:"timestamp"`
	ActionNumber int    `json:"action_number"`
}

// BankView lists who stands where, for rendering
type BankView struct {
	Left          []Entity `json:"left"`
	Right         []Entity `json:"right"`
	BoatPosition  Bank     `json:"boat_position"`
	BoatPassenger Cargo    `json:"boat_passenger,omitempty"`
}

// Snapshot is a read-only copy of the state enriched with decision aids
type Snapshot struct {
	State           *GameState `json:"state"`
	Banks           BankView   `json:"banks"`
	PossibleActions []string   `json:"possible_actions"`
	Threat          string     `json:"threat,omitempty"`
}
