package session

import (
	"time"

	"github.com/wricardo/river-crossing-game/game/engine"
	"github.com/wricardo/river-crossing-game/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions
type PersistedSessionData struct {
	ID             string                `json:"id"`
	PackID         string                `json:"pack_id"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	GameState      *engine.GameState     `json:"game_state"`
	History        []engine.ActionRecord `json:"history"`
	CurrentActions []engine.ActionRecord `json:"current_actions"`
}
