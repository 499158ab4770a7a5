package hook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const okScript = "#!/bin/sh\necho '{\"success\":true}'\n"

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	hookPath := writeHook(t, tmpDir, "notify", okScript, EventChallengeCompleted, EventVerified)

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	h := hooks[0]
	if h.Manifest.Name != "notify" {
		t.Errorf("expected hook name 'notify', got %q", h.Manifest.Name)
	}
	if h.Manifest.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", h.Manifest.Version)
	}
	if len(h.Manifest.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(h.Manifest.Events))
	}
	if h.Path != hookPath {
		t.Errorf("expected path %q, got %q", hookPath, h.Path)
	}
	if h.Executable != filepath.Join(hookPath, "run.sh") {
		t.Errorf("expected executable inside hook dir, got %q", h.Executable)
	}
}

func TestManager_Discover_MultipleHooks(t *testing.T) {
	tmpDir := t.TempDir()
	writeHook(t, tmpDir, "zeta", okScript, EventVerified)
	writeHook(t, tmpDir, "alpha", okScript, EventChallengeCompleted)
	writeHook(t, tmpDir, "mid", okScript, EventChallengeCompleted, EventVerified)

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 3 {
		t.Fatalf("expected 3 hooks, got %d", len(hooks))
	}
	if hooks[0].Manifest.Name != "alpha" || hooks[2].Manifest.Name != "zeta" {
		t.Errorf("expected hooks sorted by name, got %s, %s, %s",
			hooks[0].Manifest.Name, hooks[1].Manifest.Name, hooks[2].Manifest.Name)
	}

	t.Run("ForEvent filters subscriptions", func(t *testing.T) {
		completed := manager.ForEvent(EventChallengeCompleted)
		if len(completed) != 2 || completed[0].Manifest.Name != "alpha" || completed[1].Manifest.Name != "mid" {
			t.Errorf("unexpected challenge_completed hooks: %v", names(completed))
		}

		verified := manager.ForEvent(EventVerified)
		if len(verified) != 2 || verified[0].Manifest.Name != "mid" || verified[1].Manifest.Name != "zeta" {
			t.Errorf("unexpected verified hooks: %v", names(verified))
		}

		if got := manager.ForEvent(Event("unknown")); len(got) != 0 {
			t.Errorf("expected no hooks for unknown event, got %v", names(got))
		}
	})
}

func names(hooks []*Hook) []string {
	out := make([]string, len(hooks))
	for i, h := range hooks {
		out[i] = h.Manifest.Name
	}
	return out
}

func TestManager_Discover_EmptyDir(t *testing.T) {
	manager := NewManager(t.TempDir())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if hooks := manager.List(); len(hooks) != 0 {
		t.Errorf("expected 0 hooks, got %d", len(hooks))
	}
}

func TestManager_Discover_SkipsInvalidManifests(t *testing.T) {
	tmpDir := t.TempDir()
	writeHook(t, tmpDir, "good", okScript, EventVerified)

	badJSON := filepath.Join(tmpDir, "bad-json")
	os.MkdirAll(badJSON, 0755)
	os.WriteFile(filepath.Join(badJSON, ManifestFile), []byte("{not json"), 0644)

	noExec := filepath.Join(tmpDir, "no-exec")
	os.MkdirAll(noExec, 0755)
	os.WriteFile(filepath.Join(noExec, ManifestFile), []byte(`{"name":"no-exec"}`), 0644)

	os.MkdirAll(filepath.Join(tmpDir, "no-manifest"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "stray-file.json"), []byte(`{}`), 0644)

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 || hooks[0].Manifest.Name != "good" {
		t.Errorf("expected only the valid hook, got %v", names(hooks))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := manager.Discover(); err != nil {
		t.Errorf("Discover() on missing dir should not fail, got %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no hooks")
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	tmpDir := t.TempDir()
	hookPath := writeHook(t, tmpDir, "temp", okScript, EventVerified)

	manager := NewManager(tmpDir)
	manager.Discover()
	if len(manager.List()) != 1 {
		t.Fatal("expected hook on first scan")
	}

	os.RemoveAll(hookPath)
	manager.Discover()
	if len(manager.List()) != 0 {
		t.Error("expected removed hook to disappear on rescan")
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeHook(t, tmpDir, "notify", okScript, EventVerified)

	manager := NewManager(tmpDir)
	manager.Discover()

	h, err := manager.Get("notify")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if h.Manifest.Name != "notify" {
		t.Errorf("expected 'notify', got %q", h.Manifest.Name)
	}

	if _, err := manager.Get("nonexistent"); !errors.Is(err, ErrHookNotFound) {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
}

func TestManager_HookDir(t *testing.T) {
	manager := NewManager("/some/path/hooks")
	if manager.HookDir() != "/some/path/hooks" {
		t.Errorf("expected '/some/path/hooks', got %q", manager.HookDir())
	}
}

func TestManifest_Subscribes(t *testing.T) {
	m := Manifest{Events: []Event{EventVerified}}
	if !m.Subscribes(EventVerified) {
		t.Error("expected subscription to verified")
	}
	if m.Subscribes(EventChallengeCompleted) {
		t.Error("did not expect subscription to challenge_completed")
	}
}
