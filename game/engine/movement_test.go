package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestToggleBoard_BoardAndDisembark(t *testing.T) {
	gs := NewGameState(nil)

	if err := gs.ToggleBoard(Goat, nil); err != nil {
		t.Fatalf("Expected goat to board, got %v", err)
	}
	if gs.BoatPassenger != CargoGoat {
		t.Errorf("Expected goat aboard, got %q", gs.BoatPassenger)
	}
	if gs.Locations[Goat] != Left {
		t.Error("Boarding must not change the goat's bank")
	}

	if err := gs.ToggleBoard(Goat, nil); err != nil {
		t.Fatalf("Expected goat to disembark, got %v", err)
	}
	if gs.BoatPassenger != NoCargo {
		t.Errorf("Expected empty boat, got %q", gs.BoatPassenger)
	}
}

func TestToggleBoard_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(gs *GameState)
		entity Entity
		code   string
	}{
		{"person", func(gs *GameState) {}, Person, CodePersonNotBoardable},
		{"slot taken", func(gs *GameState) { gs.BoatPassenger = CargoWolf }, Goat, CodePassengerSlotTaken},
		{"other bank", func(gs *GameState) { gs.Locations[Cabbage] = Right }, Cabbage, CodeNotAtBoat},
		{"unknown entity", func(gs *GameState) {}, Entity("boat"), CodeUnknownEntity},
		{"game over", func(gs *GameState) {
			gs.Phase = Lost
			gs.OutcomeReason = "The wolf ate the goat!"
		}, Goat, CodeGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState(nil)
			tt.setup(gs)
			before := gs.Clone()

			err := gs.ToggleBoard(tt.entity, nil)
			if !errors.Is(err, ErrInvalidAction) {
				t.Fatalf("Expected ErrInvalidAction, got %v", err)
			}
			if code := ActionErrorCode(err); code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, code)
			}
			if gs.BoatPassenger != before.BoatPassenger || gs.Message != before.Message {
				t.Error("Rejected toggle changed the state")
			}
		})
	}
}

func TestMoveBoat_CarriesAndAutoDisembarks(t *testing.T) {
	gs := NewGameState(nil)
	if err := gs.ToggleBoard(Goat, nil); err != nil {
		t.Fatalf("Failed to board goat: %v", err)
	}

	if err := gs.MoveBoat(nil); err != nil {
		t.Fatalf("Expected crossing to succeed, got %v", err)
	}

	if gs.BoatPosition != Right {
		t.Errorf("Expected boat on right, got %s", gs.BoatPosition)
	}
	if gs.Locations[Person] != Right || gs.Locations[Goat] != Right {
		t.Error("Expected person and goat on the right bank")
	}
	if gs.BoatPassenger != NoCargo {
		t.Error("Expected the goat to disembark on arrival")
	}
	if gs.Phase != InProgress {
		t.Errorf("Expected game in progress, got %s", gs.Phase)
	}
	if gs.Crossings != 1 {
		t.Errorf("Expected 1 crossing, got %d", gs.Crossings)
	}
}

func TestMoveBoat_PersonNotAtBoat(t *testing.T) {
	gs := NewGameState(nil)
	// unreachable through play, but the precondition is checked regardless
	gs.Locations[Person] = Right
	before := gs.Clone()

	err := gs.MoveBoat(nil)
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("Expected ErrInvalidAction, got %v", err)
	}
	if ActionErrorCode(err) != CodePersonNotAtBoat {
		t.Errorf("Expected %s, got %s", CodePersonNotAtBoat, ActionErrorCode(err))
	}
	if gs.BoatPosition != before.BoatPosition || gs.Crossings != before.Crossings {
		t.Error("Rejected crossing changed the state")
	}
}

func TestMoveBoat_LosingCrossingReportsPair(t *testing.T) {
	tests := []struct {
		name   string
		board  Entity
		code   string
		reason []string
	}{
		{"ferry wolf leaves goat with cabbage", Wolf, OutcomeGoatAteCabbage, []string{"goat", "cabbage"}},
		{"ferry cabbage leaves wolf with goat", Cabbage, OutcomeWolfAteGoat, []string{"wolf", "goat"}},
		{"cross alone leaves everyone", "", OutcomeWolfAteGoat, []string{"wolf", "goat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState(nil)
			if tt.board != "" {
				if err := gs.ToggleBoard(tt.board, nil); err != nil {
					t.Fatalf("Failed to board %s: %v", tt.board, err)
				}
			}
			if err := gs.MoveBoat(nil); err != nil {
				t.Fatalf("Crossing should be accepted, got %v", err)
			}

			if gs.Phase != Lost {
				t.Fatalf("Expected lost, got %s", gs.Phase)
			}
			if gs.OutcomeCode != tt.code {
				t.Errorf("Expected outcome %s, got %s", tt.code, gs.OutcomeCode)
			}
			for _, word := range tt.reason {
				if !strings.Contains(strings.ToLower(gs.OutcomeReason), word) {
					t.Errorf("Expected reason %q to mention %s", gs.OutcomeReason, word)
				}
			}
		})
	}
}

func TestMoveBoatTo(t *testing.T) {
	gs := NewGameState(nil)

	err := gs.MoveBoatTo(Left, nil)
	if ActionErrorCode(err) != CodeBoatAlreadyThere {
		t.Errorf("Expected %s, got %v", CodeBoatAlreadyThere, err)
	}

	if err := gs.ToggleBoard(Goat, nil); err != nil {
		t.Fatalf("Failed to board goat: %v", err)
	}
	if err := gs.MoveBoatTo(Right, nil); err != nil {
		t.Fatalf("Expected crossing to the right, got %v", err)
	}
	if gs.BoatPosition != Right {
		t.Errorf("Expected boat on right, got %s", gs.BoatPosition)
	}
}

func TestBoardAndDisembarkStrict(t *testing.T) {
	gs := NewGameState(nil)

	if err := gs.Disembark(Goat, nil); ActionErrorCode(err) != CodeNotAboard {
		t.Errorf("Expected %s, got %v", CodeNotAboard, err)
	}
	if err := gs.Board(Goat, nil); err != nil {
		t.Fatalf("Expected goat to board, got %v", err)
	}
	if err := gs.Board(Goat, nil); ActionErrorCode(err) != CodeAlreadyAboard {
		t.Errorf("Expected %s, got %v", CodeAlreadyAboard, err)
	}
	if err := gs.Disembark(Goat, nil); err != nil {
		t.Fatalf("Expected goat to disembark, got %v", err)
	}
	if gs.BoatPassenger != NoCargo {
		t.Error("Expected empty boat")
	}
}

// Random play must never break the state invariants.
func TestRandomPlayKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	entities := AllEntities()

	for game := 0; game < 200; game++ {
		gs := NewGameState(nil)
		for step := 0; step < 40 && !gs.Phase.IsTerminal(); step++ {
			crossed := false
			if rng.Intn(3) == 0 {
				_ = gs.MoveBoat(nil)
				crossed = true
			} else {
				_ = gs.ToggleBoard(entities[rng.Intn(len(entities))], nil)
			}

			if err := ValidateState(gs); err != nil {
				t.Fatalf("game %d step %d: %v", game, step, err)
			}
			if crossed && gs.BoatPassenger != NoCargo {
				t.Fatalf("game %d step %d: passenger still aboard after crossing", game, step)
			}
			if gs.Locations[Person] != gs.BoatPosition {
				t.Fatalf("game %d step %d: person separated from the boat", game, step)
			}
		}
	}
}
