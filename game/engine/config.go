package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PackMessages holds every feedback text shown to the player
type PackMessages struct {
	Welcome            string `yaml:"welcome" json:"welcome"`
	Boarded            string `yaml:"boarded" json:"boarded"`
	Disembarked        string `yaml:"disembarked" json:"disembarked"`
	Crossed            string `yaml:"crossed" json:"crossed"`
	WolfAteGoat        string `yaml:"wolf_ate_goat" json:"wolf_ate_goat"`
	GoatAteCabbage     string `yaml:"goat_ate_cabbage" json:"goat_ate_cabbage"`
	Victory            string `yaml:"victory" json:"victory"`
	CannotBoard        string `yaml:"cannot_board" json:"cannot_board"`
	PersonNotBoardable string `yaml:"person_not_boardable" json:"person_not_boardable"`
	PersonNotAtBoat    string `yaml:"person_not_at_boat" json:"person_not_at_boat"`
	BoatAlreadyThere   string `yaml:"boat_already_there" json:"boat_already_there"`
	GameOver           string `yaml:"game_over" json:"game_over"`
	UnknownAction      string `yaml:"unknown_action" json:"unknown_action"`
	AlreadyAboard      string `yaml:"already_aboard" json:"already_aboard"`
	NotAboard          string `yaml:"not_aboard" json:"not_aboard"`

	// Threat takes predator, prey and bank; use %[n]s to reorder them
	Threat string `yaml:"threat" json:"threat"`
}

// GamePack is a message pack: labels and texts for one language/theme.
// The puzzle rules themselves are fixed.
type GamePack struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Language    string            `yaml:"language" json:"language"`
	Labels      map[Entity]string `yaml:"labels" json:"labels"`
	Emoji       map[Entity]string `yaml:"emoji" json:"emoji"`
	Messages    PackMessages      `yaml:"messages" json:"messages"`
	Rules       []string          `yaml:"rules" json:"rules"`
}

// Label returns the display label of an entity, falling back to its name
func (p *GamePack) Label(e Entity) string {
	if p != nil {
		if l, ok := p.Labels[e]; ok && l != "" {
			return l
		}
	}
	return string(e)
}

// ValidateGamePack validates a message pack for completeness
func ValidateGamePack(pack *GamePack) error {
	if pack == nil {
		return fmt.Errorf("pack validation: pack is nil")
	}
	if pack.Name == "" {
		return fmt.Errorf("pack validation: name is required")
	}
	if pack.Description == "" {
		return fmt.Errorf("pack validation: description is required")
	}

	for _, e := range AllEntities() {
		if pack.Labels[e] == "" {
			return fmt.Errorf("pack validation: labels.%s is required", e)
		}
	}
	for key := range pack.Labels {
		if _, err := ParseEntity(string(key)); err != nil {
			return fmt.Errorf("pack validation: labels: %v", err)
		}
	}

	required := map[string]string{
		"welcome":              pack.Messages.Welcome,
		"wolf_ate_goat":        pack.Messages.WolfAteGoat,
		"goat_ate_cabbage":     pack.Messages.GoatAteCabbage,
		"victory":              pack.Messages.Victory,
		"cannot_board":         pack.Messages.CannotBoard,
		"person_not_boardable": pack.Messages.PersonNotBoardable,
		"person_not_at_boat":   pack.Messages.PersonNotAtBoat,
		"boat_already_there":   pack.Messages.BoatAlreadyThere,
		"game_over":            pack.Messages.GameOver,
		"unknown_action":       pack.Messages.UnknownAction,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("pack validation: messages.%s is required", key)
		}
	}

	// Each format is rendered with this many label arguments
	formats := []struct {
		key   string
		value string
		args  int
	}{
		{"boarded", pack.Messages.Boarded, 1},
		{"disembarked", pack.Messages.Disembarked, 1},
		{"crossed", pack.Messages.Crossed, 1},
		{"already_aboard", pack.Messages.AlreadyAboard, 1},
		{"not_aboard", pack.Messages.NotAboard, 1},
		{"threat", pack.Messages.Threat, 3},
	}
	for _, f := range formats {
		if !strings.Contains(f.value, "%") {
			return fmt.Errorf("pack validation: messages.%s must contain %%s", f.key)
		}
		args := make([]interface{}, f.args)
		for i := range args {
			args[i] = "x"
		}
		if strings.Contains(fmt.Sprintf(f.value, args...), "%!") {
			return fmt.Errorf("pack validation: messages.%s must take %d %%s argument(s)", f.key, f.args)
		}
	}

	return nil
}

// LoadGamePack loads and validates a message pack from a YAML file
func LoadGamePack(filename string) (*GamePack, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseGamePack(data)
}

// ParseGamePack decodes and validates a YAML message pack
func ParseGamePack(data []byte) (*GamePack, error) {
	var pack GamePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse pack: %w", err)
	}
	if err := ValidateGamePack(&pack); err != nil {
		return nil, err
	}
	return &pack, nil
}

// LoadPackByName loads a pack by name from the configs directory
func LoadPackByName(name string) (*GamePack, error) {
	if !strings.HasSuffix(name, ".yaml") {
		name = name + ".yaml"
	}
	pack, err := LoadGamePack(filepath.Join("configs", name))
	if err != nil {
		return nil, fmt.Errorf("invalid pack '%s': %w", name, err)
	}
	return pack, nil
}

// DefaultGamePack returns the built-in English pack
func DefaultGamePack() *GamePack {
	return &GamePack{
		Name:        "classic",
		Description: "Wolf, goat and cabbage: ferry everyone to the right bank",
		Language:    "en",
		Labels: map[Entity]string{
			Person:  "Farmer",
			Wolf:    "Wolf",
			Goat:    "Goat",
			Cabbage: "Cabbage",
		},
		Emoji: map[Entity]string{
			Person:  "🧍",
			Wolf:    "🐺",
			Goat:    "🐑",
			Cabbage: "🥬",
		},
		Messages: PackMessages{
			Welcome:            "Get the wolf, the goat and the cabbage safely to the right bank!",
			Boarded:            "%s boarded the boat",
			Disembarked:        "%s got off the boat",
			Crossed:            "The boat crossed to the %s bank",
			WolfAteGoat:        "The wolf ate the goat!",
			GoatAteCabbage:     "The goat ate the cabbage!",
			Victory:            "Everyone crossed safely!",
			CannotBoard:        "That one cannot board the boat right now",
			PersonNotBoardable: "The farmer boards automatically when the boat moves",
			PersonNotAtBoat:    "The farmer must be with the boat to move it",
			BoatAlreadyThere:   "The boat is already on that bank",
			GameOver:           "The game is over. Reset to play again",
			UnknownAction:      "Unknown action",
			AlreadyAboard:      "%s is already aboard",
			NotAboard:          "%s is not aboard",
			Threat:             "crossing now leaves the %s with the %s on the %s bank",
		},
		Rules: []string{
			"The boat carries the farmer and at most one more passenger.",
			"Left alone without the farmer, the wolf eats the goat.",
			"Left alone without the farmer, the goat eats the cabbage.",
			"Bring all four to the right bank to win.",
		},
	}
}

// NewGameState creates the initial state: everyone and the boat on the
// left bank, no passenger, game in progress.
func NewGameState(pack *GamePack) *GameState {
	if pack == nil {
		pack = DefaultGamePack()
	}
	locations := make(map[Entity]Bank, 4)
	for _, e := range AllEntities() {
		locations[e] = Left
	}
	return &GameState{
		Locations:    locations,
		BoatPosition: Left,
		Phase:        InProgress,
		Message:      pack.Messages.Welcome,
		PackName:     pack.Name,
	}
}
