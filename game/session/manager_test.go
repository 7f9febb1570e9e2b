package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/river-crossing-game/game/engine"
)

func createTestPack() *engine.GamePack {
	return engine.DefaultGamePack()
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "classic", pack)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.PackID != "classic" {
			t.Errorf("Expected pack ID 'classic', got '%s'", session.PackID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "classic", pack)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", "classic", pack)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "classic", pack)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid session ID", func(t *testing.T) {
		_, err := manager.Create("../escape", "classic", pack)
		if err != ErrInvalidSessionID {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid pack", func(t *testing.T) {
		invalidPack := createTestPack()
		invalidPack.Name = ""
		_, err := manager.Create("invalid-test", "broken", invalidPack)
		if err == nil {
			t.Error("Expected error for invalid pack")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", "classic", createTestPack())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	first, err := manager.GetOrCreate("new-session", "classic", pack)
	if err != nil {
		t.Fatalf("Failed to get or create session: %v", err)
	}

	second, err := manager.GetOrCreate("new-session", "classic", pack)
	if err != nil {
		t.Fatalf("Failed to get existing session: %v", err)
	}
	if first != second {
		t.Error("Expected the existing session to be returned")
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()
	manager.Create("delete-test", "classic", pack)

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", "classic", pack)
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	ids := []string{"list-1", "list-2", "list-3"}
	for _, id := range ids {
		if _, err := manager.Create(id, "classic", pack); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
	}

	found := make(map[string]bool)
	for _, s := range manager.List() {
		found[s.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			t.Errorf("Session %s not found in list", id)
		}
	}
	if manager.Count() != len(ids) {
		t.Errorf("Expected count %d, got %d", len(ids), manager.Count())
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	active, _ := manager.Create("active", "classic", pack)
	expired, _ := manager.Create("expired", "classic", pack)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	if deleted := manager.CleanupExpiredSessions(1 * time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); err != ErrSessionNotFound {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", "classic", createTestPack())
	originalTime := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_SaveWithoutPersistence(t *testing.T) {
	manager := NewManager()
	manager.Create("no-disk", "classic", createTestPack())

	if err := manager.Save("no-disk"); err != nil {
		t.Errorf("Save without persistence should be a no-op, got %v", err)
	}
	if err := manager.SaveAllSessions(); err != nil {
		t.Errorf("SaveAllSessions without persistence should be a no-op, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conc-%d", i%20)
			session, err := manager.GetOrCreate(id, "classic", pack)
			if err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
				return
			}
			if session != nil {
				manager.UpdateLastAccessed(id)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	session1, _ := manager.Create("iso-1", "classic", pack)
	session2, _ := manager.Create("iso-2", "classic", pack)

	if err := session1.Engine.ToggleBoard(engine.Goat); err != nil {
		t.Fatalf("Failed to board goat: %v", err)
	}
	if err := session1.Engine.MoveBoat(); err != nil {
		t.Fatalf("Failed to cross: %v", err)
	}

	if session2.Engine.GetState().BoatPosition != engine.Left {
		t.Error("Session 2 should not be affected by session 1 actions")
	}
	if session2.Engine.GetState().Locations[engine.Goat] != engine.Left {
		t.Error("Sessions should have independent game state")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	pack := createTestPack()

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", "classic", pack)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 4 || !validSessionID(session.ID) {
			t.Errorf("Expected 4 hex characters, got %q", session.ID)
		}
	}
}

func TestValidSessionID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"ab12", true},
		{"my-session_1", true},
		{"", false},
		{"../etc", false},
		{"a/b", false},
		{"with space", false},
	}

	for _, tt := range tests {
		if got := validSessionID(tt.id); got != tt.valid {
			t.Errorf("validSessionID(%q) = %v, want %v", tt.id, got, tt.valid)
		}
	}
}
