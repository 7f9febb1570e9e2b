package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	Snapshot() Snapshot
	Phase() Phase
	IsGameOver() bool
	IsVictory() bool
	OutcomeReason() string

	// Player actions
	CanBoard(e Entity) bool
	ToggleBoard(e Entity) error
	Board(e Entity) error
	Disembark(e Entity) error
	MoveBoat() error
	MoveBoatTo(to Bank) error
	Apply(action string) error
	PossibleActions() []string

	// Configuration
	GetConfig() *GamePack
	SetConfig(pack *GamePack) error

	// History
	GetActionHistory() []ActionRecord
	GetCurrentActions() []ActionRecord
	GetLastAction() *ActionRecord
}

// GameEngine implements the Engine interface for one game
type GameEngine struct {
	state   *GameState
	pack    *GamePack
	phase   *phaseTracker
	history []ActionRecord
	current []ActionRecord
}

// NewEngine creates a new game engine with the provided message pack
func NewEngine(pack *GamePack) (*GameEngine, error) {
	if err := ValidateGamePack(pack); err != nil {
		return nil, err
	}

	e := &GameEngine{
		pack:    pack,
		history: []ActionRecord{},
		current: []ActionRecord{},
	}
	if err := e.install(NewGameState(pack)); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in pack
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultGamePack())
	if err != nil {
		// the built-in pack is always valid
		panic(err)
	}
	return e
}

// install replaces the state and rebuilds the phase tracker to match it
func (e *GameEngine) install(state *GameState) error {
	tracker, err := newPhaseTracker(state.Phase, state.OutcomeReason)
	if err != nil {
		return err
	}
	if e.phase != nil {
		e.phase.Stop()
	}
	e.state = state
	e.phase = tracker
	return nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := ValidateState(state); err != nil {
		return err
	}
	return e.install(state)
}

// Reset discards the current game and starts a fresh one. The cumulative
// history survives; the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	if err := e.install(NewGameState(e.pack)); err != nil {
		// an in-progress state always builds a tracker
		panic(err)
	}
	e.current = []ActionRecord{}
	return e.state
}

// Snapshot returns a deep copy of the state with decision aids
func (e *GameEngine) Snapshot() Snapshot {
	return Snapshot{
		State:           e.state.Clone(),
		Banks:           Banks(e.state),
		PossibleActions: PossibleActions(e.state),
		Threat:          DescribeThreat(e.state, e.pack),
	}
}

// Phase returns the current phase
func (e *GameEngine) Phase() Phase {
	return e.state.Phase
}

// IsGameOver returns whether the game has ended
func (e *GameEngine) IsGameOver() bool {
	return e.phase.Terminal()
}

// IsVictory returns whether the player has won
func (e *GameEngine) IsVictory() bool {
	return e.state.Phase == Won
}

// OutcomeReason returns the cause of the terminal outcome, if any
func (e *GameEngine) OutcomeReason() string {
	return e.state.OutcomeReason
}

// CanBoard checks whether an entity may be boarded or disembarked now
func (e *GameEngine) CanBoard(ent Entity) bool {
	c, ok := CargoOf(ent)
	if !ok {
		return false
	}
	return CanBoard(e.state, c)
}

// ToggleBoard boards or disembarks an entity
func (e *GameEngine) ToggleBoard(ent Entity) error {
	return e.run(Action{Kind: ActionToggle, Entity: ent})
}

// Board boards an entity that is not yet aboard
func (e *GameEngine) Board(ent Entity) error {
	return e.run(Action{Kind: ActionBoard, Entity: ent})
}

// Disembark takes the current passenger off the boat
func (e *GameEngine) Disembark(ent Entity) error {
	return e.run(Action{Kind: ActionDisembark, Entity: ent})
}

// MoveBoat crosses the river
func (e *GameEngine) MoveBoat() error {
	return e.run(Action{Kind: ActionCross})
}

// MoveBoatTo crosses the river towards a specific bank
func (e *GameEngine) MoveBoatTo(to Bank) error {
	return e.run(Action{Kind: ActionCross, To: to})
}

// Apply parses and executes a textual action
func (e *GameEngine) Apply(text string) error {
	action, err := ParseAction(text)
	if err != nil {
		e.record(text, NoCargo, e.state.BoatPosition, err)
		return err
	}
	return e.run(action)
}

// run executes an action on the state, keeps the phase tracker in step and
// records the attempt
func (e *GameEngine) run(a Action) error {
	from := e.state.BoatPosition
	cargo, _ := CargoOf(a.Entity)

	var err error
	if e.phase.Terminal() {
		err = invalid(a.String(), CodeGameOver, e.pack.Messages.GameOver)
	} else {
		err = e.state.Apply(a, e.pack)
	}
	if err == nil && e.state.Phase.IsTerminal() {
		err = e.phase.advance(e.state.Phase, e.state.OutcomeReason)
	}

	e.record(a.String(), cargo, from, err)
	return err
}

// BulkApply executes actions in order, stopping at the first rejected one
// or when the game ends. It returns one result per attempted action.
func (e *GameEngine) BulkApply(actions []string) []error {
	results := make([]error, 0, len(actions))

	for _, action := range actions {
		if e.IsGameOver() {
			break
		}
		err := e.Apply(action)
		results = append(results, err)
		if err != nil {
			break
		}
	}

	return results
}

// PossibleActions returns every action that would be accepted now
func (e *GameEngine) PossibleActions() []string {
	if e.phase.Terminal() {
		return []string{}
	}
	return PossibleActions(e.state)
}

// GetConfig returns the current message pack
func (e *GameEngine) GetConfig() *GamePack {
	return e.pack
}

// SetConfig sets a new message pack and resets the game
func (e *GameEngine) SetConfig(pack *GamePack) error {
	if err := ValidateGamePack(pack); err != nil {
		return err
	}
	e.pack = pack
	e.Reset()
	return nil
}

// GetActionHistory returns the cumulative action history
func (e *GameEngine) GetActionHistory() []ActionRecord {
	return e.history
}

// GetCurrentActions returns the actions since the last reset
func (e *GameEngine) GetCurrentActions() []ActionRecord {
	return e.current
}

// GetLastAction returns the last action attempted, or nil if none
func (e *GameEngine) GetLastAction() *ActionRecord {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// RestoreHistory installs previously persisted history
func (e *GameEngine) RestoreHistory(history, current []ActionRecord) {
	if history == nil {
		history = []ActionRecord{}
	}
	if current == nil {
		current = []ActionRecord{}
	}
	e.history = history
	e.current = current
}

func (e *GameEngine) record(action string, cargo Cargo, from Bank, err error) {
	entry := ActionRecord{
		ID:           uuid.NewString(),
		Action:       action,
		Cargo:        cargo,
		BoatFrom:     from,
		BoatTo:       e.state.BoatPosition,
		Success:      err == nil,
		ErrorCode:    ActionErrorCode(err),
		Phase:        e.state.Phase,
		Timestamp:    time.Now().Unix(),
		ActionNumber: len(e.history) + 1,
	}
	e.history = append(e.history, entry)
	e.current = append(e.current, entry)
}
