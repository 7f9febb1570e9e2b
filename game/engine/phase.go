package engine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// phaseContext carries the outcome through the phase statechart
type phaseContext struct {
	Phase  Phase
	Reason string
}

const (
	stateInProgress statekit.StateID = statekit.StateID(InProgress)
	stateWon        statekit.StateID = statekit.StateID(Won)
	stateLost       statekit.StateID = statekit.StateID(Lost)

	eventWin  statekit.EventType = "WIN"
	eventLose statekit.EventType = "LOSE"
)

// newPhaseMachine builds the game lifecycle: in_progress is the only
// non-final state, won and lost are final. Reset builds a new interpreter.
func newPhaseMachine() (*statekit.MachineConfig[*phaseContext], error) {
	return statekit.NewMachine[*phaseContext]("river-crossing").
		WithInitial(stateInProgress).
		WithContext(&phaseContext{Phase: InProgress}).
		WithAction("recordOutcome", recordOutcome).
		State(stateInProgress).
			On(eventWin).Target(stateWon).Do("recordOutcome").
			On(eventLose).Target(stateLost).Do("recordOutcome").
			Done().
		State(stateWon).
			Final().
			Done().
		State(stateLost).
			Final().
			Done().
		Build()
}

func recordOutcome(ctx **phaseContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx
	switch event.Type {
	case eventWin:
		c.Phase = Won
	case eventLose:
		c.Phase = Lost
	}
	if reason, ok := event.Payload.(string); ok {
		c.Reason = reason
	}
}

// phaseTracker wraps the statekit interpreter for one game
type phaseTracker struct {
	interp *statekit.Interpreter[*phaseContext]
	ctx    *phaseContext
}

// newPhaseTracker starts an interpreter and fast-forwards it to phase
func newPhaseTracker(phase Phase, reason string) (*phaseTracker, error) {
	machine, err := newPhaseMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build phase machine: %w", err)
	}

	ctx := &phaseContext{Phase: InProgress}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **phaseContext) {
		*c = ctx
	})
	interp.Start()

	t := &phaseTracker{interp: interp, ctx: ctx}
	if err := t.advance(phase, reason); err != nil {
		return nil, err
	}
	return t, nil
}

// advance moves the tracker to phase; in_progress is a no-op
func (t *phaseTracker) advance(phase Phase, reason string) error {
	if phase == t.Phase() {
		return nil
	}
	if t.Terminal() {
		return fmt.Errorf("phase is already %s", t.Phase())
	}
	switch phase {
	case Won:
		t.interp.Send(statekit.Event{Type: eventWin, Payload: reason})
	case Lost:
		t.interp.Send(statekit.Event{Type: eventLose, Payload: reason})
	default:
		return fmt.Errorf("cannot move phase back to %s", phase)
	}
	return nil
}

// Phase returns the interpreter's current phase
func (t *phaseTracker) Phase() Phase {
	return Phase(t.interp.State().Value)
}

// Terminal reports whether the interpreter reached a final state
func (t *phaseTracker) Terminal() bool {
	return t.interp.Done()
}

// Reason returns the outcome reason recorded on the terminal transition
func (t *phaseTracker) Reason() string {
	return t.ctx.Reason
}

// Stop halts the interpreter
func (t *phaseTracker) Stop() {
	t.interp.Stop()
}
