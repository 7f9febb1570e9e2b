package service

import (
	"context"
	"time"

	"github.com/wricardo/river-crossing-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, packName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Act(ctx context.Context, sessionID, action string, reset bool) (*ActionResult, error)
	BulkAct(ctx context.Context, sessionID string, actions []string, reset bool) (*BulkActionResult, error)
	ToggleBoard(ctx context.Context, sessionID, entity string) (*ActionResult, error)
	MoveBoat(ctx context.Context, sessionID, to string) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*PackInfo, error)
	LoadConfig(ctx context.Context, packName string) (*engine.GamePack, error)
	SaveConfig(ctx context.Context, packName string, pack *engine.GamePack) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, packID string, pack *engine.GamePack) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, packID string, pack *engine.GamePack) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles message pack loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GamePack, error)
	ListConfigs() ([]*PackInfo, error)
	GetDefault() *engine.GamePack
	DefaultID() string
	SaveConfig(name string, pack *engine.GamePack) error
}

// Session represents an active game session
type Session struct {
	ID             string
	PackID         string
	Engine         *engine.GameEngine
	Pack           *engine.GamePack
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
