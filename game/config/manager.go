package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/river-crossing-game/game/engine"
	"github.com/wricardo/river-crossing-game/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

const (
	packExt       = ".yaml"
	defaultPackID = "classic"
)

// Manager handles message pack loading and caching
type Manager struct {
	configDir   string
	defaultPack *engine.GamePack
	defaultID   string
	packs       map[string]*engine.GamePack
	mu          sync.RWMutex
}

// NewManager creates a new pack manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		packs:     make(map[string]*engine.GamePack),
	}

	m.loadDefaultPack()
	return m, nil
}

// LoadConfig loads a pack by name
func (m *Manager) LoadConfig(name string) (*engine.GamePack, error) {
	name = strings.TrimSuffix(name, packExt)
	if err := checkPackName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if pack, exists := m.packs[name]; exists {
		m.mu.RUnlock()
		return pack, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if pack, exists := m.packs[name]; exists {
		return pack, nil
	}

	pack, err := m.readPack(name)
	if err != nil {
		return nil, err
	}

	m.packs[name] = pack
	return pack, nil
}

// checkPackName keeps pack ids inside the config directory
func checkPackName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: invalid pack name %q", ErrInvalidConfig, name)
	}
	return nil
}

func (m *Manager) readPack(name string) (*engine.GamePack, error) {
	data, err := os.ReadFile(filepath.Join(m.configDir, name+packExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var pack engine.GamePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateGamePack(&pack); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &pack, nil
}

// ListConfigs returns information about all valid packs, sorted by id
func (m *Manager) ListConfigs() ([]*service.PackInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var packs []*service.PackInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), packExt) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), packExt)
		pack, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid packs
			continue
		}

		packs = append(packs, &service.PackInfo{
			Filename:    entry.Name(),
			ConfigID:    id,
			Name:        pack.Name,
			Description: pack.Description,
			Language:    pack.Language,
		})
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].ConfigID < packs[j].ConfigID })
	return packs, nil
}

// GetDefault returns the default pack
func (m *Manager) GetDefault() *engine.GamePack {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPack
}

// DefaultID returns the id of the default pack
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default pack by name
func (m *Manager) SetDefault(name string) error {
	pack, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPack = pack
	m.defaultID = strings.TrimSuffix(name, packExt)
	return nil
}

// ReloadConfig re-reads one pack from disk, replacing the cached copy
func (m *Manager) ReloadConfig(name string) error {
	name = strings.TrimSuffix(name, packExt)
	if err := checkPackName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pack, err := m.readPack(name)
	if err != nil {
		return err
	}
	m.packs[name] = pack
	if m.defaultID == name {
		m.defaultPack = pack
	}
	return nil
}

// ValidateConfig checks a pack without saving it
func (m *Manager) ValidateConfig(pack *engine.GamePack) error {
	if err := engine.ValidateGamePack(pack); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// RefreshCache drops every cached pack and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.packs = make(map[string]*engine.GamePack)
	m.mu.Unlock()

	m.loadDefaultPack()
	return nil
}

// loadDefaultPack picks classic, else the first valid pack, else the
// built-in pack
func (m *Manager) loadDefaultPack() {
	id := defaultPackID
	pack, err := m.LoadConfig(id)
	if err != nil {
		pack = nil
		if infos, listErr := m.ListConfigs(); listErr == nil && len(infos) > 0 {
			id = infos[0].ConfigID
			pack, _ = m.LoadConfig(id)
		}
	}
	if pack == nil {
		id = defaultPackID
		pack = engine.DefaultGamePack()
	}

	m.mu.Lock()
	m.defaultPack = pack
	m.defaultID = id
	m.mu.Unlock()
}

// SaveConfig validates a pack and writes it to disk as YAML
func (m *Manager) SaveConfig(name string, pack *engine.GamePack) error {
	if err := engine.ValidateGamePack(pack); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = strings.TrimSuffix(name, packExt)
	if err := checkPackName(name); err != nil {
		return err
	}

	data, err := yaml.Marshal(pack)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, name+packExt), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.packs[name] = pack
	m.mu.Unlock()

	return nil
}
