// Package config provides message pack and runtime configuration for the
// river crossing game.
//
// The config package handles:
//   - Loading message packs from YAML files
//   - Pack validation before use
//   - Default pack selection
//   - Pack discovery and listing
//   - Runtime tunables read from the environment
//
// Pack Format:
//
// Packs are stored as YAML files in the configs directory. A pack only
// words the game: it labels the four entities and provides the feedback
// texts. The rules of the puzzle never change with the pack.
//
// Available Packs:
//   - classic: English labels and messages
//   - korean: Korean labels and messages
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pack, err := manager.LoadConfig("korean")
//	defaultPack := manager.GetDefault()
//	packs, err := manager.ListConfigs()
//
// Runtime Settings:
//
// LoadRuntimeSettings reads SESSION_TTL, SESSION_CLEANUP_INTERVAL,
// SESSION_SYNC_INTERVAL and SESSIONS_DIR, falling back to 24h, 1h, 5s and
// "sessions".
package config
