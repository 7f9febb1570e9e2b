package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// RuntimeSettings holds the server tunables read from the environment
type RuntimeSettings struct {
	SessionTTL             time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
	SessionSyncInterval    time.Duration `env:"SESSION_SYNC_INTERVAL" envDefault:"5s"`
	SessionsDir            string        `env:"SESSIONS_DIR" envDefault:"sessions"`
}

// LoadRuntimeSettings parses RuntimeSettings from the process environment
func LoadRuntimeSettings() (RuntimeSettings, error) {
	var settings RuntimeSettings
	if err := env.Parse(&settings); err != nil {
		return RuntimeSettings{}, fmt.Errorf("failed to parse runtime settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return RuntimeSettings{}, err
	}
	return settings, nil
}

// Validate rejects non-positive intervals
func (s RuntimeSettings) Validate() error {
	if s.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", s.SessionTTL)
	}
	if s.SessionCleanupInterval <= 0 {
		return fmt.Errorf("SESSION_CLEANUP_INTERVAL must be positive, got %s", s.SessionCleanupInterval)
	}
	if s.SessionSyncInterval <= 0 {
		return fmt.Errorf("SESSION_SYNC_INTERVAL must be positive, got %s", s.SessionSyncInterval)
	}
	if s.SessionsDir == "" {
		return fmt.Errorf("SESSIONS_DIR must not be empty")
	}
	return nil
}
