package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/river-crossing-game/game/engine"
)

var (
	// ErrConfigNotFound is returned by a ConfigManager for an unknown pack
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrSessionNotFound is returned by a SessionManager for an unknown session
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidConfig is returned by a ConfigManager for a pack it refuses
	// to load or save
	ErrInvalidConfig = errors.New("invalid configuration")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. A nil logger is
// replaced by a no-op logger.
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, packName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pack *engine.GamePack
	var err error
	packID := packName
	if packName != "" {
		pack, err = s.configs.LoadConfig(packName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				available, listErr := s.configs.ListConfigs()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, packName, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, packName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", packName, err)
		}
	} else {
		pack = s.configs.GetDefault()
		packID = s.configs.DefaultID()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", packID, pack)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("pack_id", packID))

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.touch(sessionID)
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// Act parses and executes a textual action for a session
func (s *gameServiceImpl) Act(ctx context.Context, sessionID, action string, reset bool) (*ActionResult, error) {
	return s.single(sessionID, reset, action, func(eng *engine.GameEngine) error {
		return eng.Apply(action)
	})
}

// ToggleBoard boards or disembarks an entity
func (s *gameServiceImpl) ToggleBoard(ctx context.Context, sessionID, entity string) (*ActionResult, error) {
	e := engine.Entity(strings.ToLower(strings.TrimSpace(entity)))
	return s.single(sessionID, false, "toggle:"+string(e), func(eng *engine.GameEngine) error {
		return eng.ToggleBoard(e)
	})
}

// MoveBoat crosses the river; when to is set the boat must not already be
// on that bank.
func (s *gameServiceImpl) MoveBoat(ctx context.Context, sessionID, to string) (*ActionResult, error) {
	bank := engine.Bank(strings.ToLower(strings.TrimSpace(to)))
	if bank == "" {
		return s.single(sessionID, false, "cross", func(eng *engine.GameEngine) error {
			return eng.MoveBoat()
		})
	}
	return s.single(sessionID, false, "cross:"+string(bank), func(eng *engine.GameEngine) error {
		return eng.MoveBoatTo(bank)
	})
}

// single runs one engine operation under the service lock, builds the
// result and auto-saves the session
func (s *gameServiceImpl) single(sessionID string, reset bool, label string, op func(*engine.GameEngine) error) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.touch(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	before := sess.Engine.GetState().Clone()
	opErr := op(sess.Engine)
	after := sess.Engine.GetState()

	result := &ActionResult{
		Success:  opErr == nil,
		Action:   label,
		Message:  after.Message,
		Snapshot: sess.Engine.Snapshot(),
		Events:   append(events, extractEvents(before, after, opErr)...),
	}
	if opErr != nil {
		result.ErrorCode = engine.ActionErrorCode(opErr)
		result.Message = actionMessage(opErr)
		s.logger.Debug("action rejected",
			zap.String("session_id", sessionID),
			zap.String("action", label),
			zap.String("code", result.ErrorCode))
	}

	s.save(sessionID, "action")
	return result, nil
}

// BulkAct executes actions in sequence, stopping at the first rejected one
// or when the game ends
func (s *gameServiceImpl) BulkAct(ctx context.Context, sessionID string, actions []string, reset bool) (*BulkActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.touch(sessionID)

	result := &BulkActionResult{
		RequestedActions: len(actions),
		Events:           make([]GameEvent, 0),
		Success:          true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	// Limit actions to prevent abuse
	if len(actions) > engine.MaxBulkActions {
		result.Truncated = true
		result.Limit = engine.MaxBulkActions
		actions = actions[:engine.MaxBulkActions]
	}

	for i, action := range actions {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game_over"
			result.StopReasonCode = engine.CodeGameOver
			result.StoppedOnAction = result.ActionsExecuted + 1
			break
		}

		before := sess.Engine.GetState().Clone()
		actErr := sess.Engine.Apply(action)
		after := sess.Engine.GetState()

		result.Events = append(result.Events, extractEvents(before, after, actErr)...)
		step := StepInfo{
			Idx:       i + 1,
			Action:    action,
			Success:   actErr == nil,
			ErrorCode: engine.ActionErrorCode(actErr),
			BoatFrom:  before.BoatPosition,
			BoatTo:    after.BoatPosition,
			Passenger: before.BoatPassenger,
			Phase:     after.Phase,
		}
		result.Steps = append(result.Steps, step)

		if actErr != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("action %d rejected: %s", i+1, actionMessage(actErr))
			result.StopReasonCode = step.ErrorCode
			result.StoppedOnAction = i + 1
			break
		}
		result.ActionsExecuted++
	}

	snapshot := sess.Engine.Snapshot()
	result.Snapshot = snapshot
	result.GameOver = snapshot.State.Phase.IsTerminal()
	result.OutcomeCode = snapshot.State.OutcomeCode
	result.Message = snapshot.State.Message
	result.PossibleActions = snapshot.PossibleActions
	result.Threat = snapshot.Threat

	// If we ended due to game over without explicit stop reason code
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = result.OutcomeCode
	}

	s.save(sessionID, "bulk_actions")
	return result, nil
}

// Reset resets a game session to its initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.touch(sessionID)
	sess.Engine.Reset()
	snapshot := sess.Engine.Snapshot()

	s.save(sessionID, "reset")
	return &snapshot, nil
}

// GetGameState retrieves the current game snapshot
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s.touch(sessionID)
	snapshot := sess.Engine.Snapshot()
	return &snapshot, nil
}

// GetActionHistory returns paginated action history
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.Engine.GetActionHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > engine.MaxHistoryPageSize {
		opts.Limit = engine.MaxHistoryPageSize
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	actions := []engine.ActionRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = append(actions, history[start:end]...)
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available message packs
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*PackInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific message pack
func (s *gameServiceImpl) LoadConfig(ctx context.Context, packName string) (*engine.GamePack, error) {
	return s.configs.LoadConfig(packName)
}

// SaveConfig saves a message pack to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, packName string, pack *engine.GamePack) error {
	return s.configs.SaveConfig(packName, pack)
}

// touch writes the session's LastAccessedAt, so callers must hold s.mu
// exclusively
func (s *gameServiceImpl) touch(sessionID string) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Debug("failed to update last access", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// save persists a session; failures are logged, never returned
func (s *gameServiceImpl) save(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session",
			zap.String("session_id", sessionID),
			zap.String("after", after),
			zap.Error(err))
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		PackID:         sess.PackID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Snapshot:       sess.Engine.Snapshot(),
		Pack:           sess.Pack,
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

func actionMessage(err error) string {
	var ae *engine.ActionError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}

// extractEvents derives the events of one action from the state before and
// after it
func extractEvents(before, after *engine.GameState, err error) []GameEvent {
	now := time.Now()
	if err != nil {
		return []GameEvent{{
			Type:      EventInvalid,
			Message:   actionMessage(err),
			Timestamp: now,
			Code:      engine.ActionErrorCode(err),
		}}
	}

	events := []GameEvent{}
	switch {
	case before.BoatPosition != after.BoatPosition:
		events = append(events, GameEvent{
			Type:      EventCross,
			Message:   fmt.Sprintf("Boat crossed from %s to %s", before.BoatPosition, after.BoatPosition),
			Timestamp: now,
			Entity:    before.BoatPassenger.Entity(),
			Bank:      after.BoatPosition,
		})
	case !before.BoatPassenger.IsSet() && after.BoatPassenger.IsSet():
		events = append(events, GameEvent{
			Type:      EventBoard,
			Message:   after.Message,
			Timestamp: now,
			Entity:    after.BoatPassenger.Entity(),
			Bank:      after.BoatPosition,
		})
	case before.BoatPassenger.IsSet() && !after.BoatPassenger.IsSet():
		events = append(events, GameEvent{
			Type:      EventDisembark,
			Message:   after.Message,
			Timestamp: now,
			Entity:    before.BoatPassenger.Entity(),
			Bank:      after.BoatPosition,
		})
	}

	if !before.Phase.IsTerminal() {
		switch after.Phase {
		case engine.Won:
			events = append(events, GameEvent{
				Type:      EventWon,
				Message:   after.OutcomeReason,
				Timestamp: now,
				Code:      after.OutcomeCode,
			})
		case engine.Lost:
			events = append(events, GameEvent{
				Type:      EventLost,
				Message:   after.OutcomeReason,
				Timestamp: now,
				Code:      after.OutcomeCode,
			})
		}
	}

	return events
}
