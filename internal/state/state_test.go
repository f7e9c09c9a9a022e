package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FirstRun(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "certsight.yaml"))

	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil for missing state file", err)
	}
	if m.GetAgentID() != "" {
		t.Errorf("GetAgentID() = %q, want empty on first run", m.GetAgentID())
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "certsight.yaml")
	scanTime := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	m := NewManager(configPath)
	m.SetAgentID("agent-789")
	m.SetLastScanAt(scanTime)
	if err := m.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(m.FilePath())
	if err != nil {
		t.Fatalf("stat state file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("state file permissions = %o, want 600", perm)
	}

	reloaded := NewManager(configPath)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.GetAgentID() != "agent-789" {
		t.Errorf("GetAgentID() = %q, want agent-789", reloaded.GetAgentID())
	}
	if !reloaded.GetLastScanAt().Equal(scanTime) {
		t.Errorf("GetLastScanAt() = %v, want %v", reloaded.GetLastScanAt(), scanTime)
	}
}

func TestLoad_CorruptedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "certsight.yaml")
	m := NewManager(configPath)

	if err := os.WriteFile(m.FilePath(), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing corrupted state: %v", err)
	}

	if err := m.Load(); err == nil {
		t.Error("Load() error = nil, want parse error for corrupted file")
	}
	// Corrupted state degrades to a first run.
	if m.GetAgentID() != "" {
		t.Errorf("GetAgentID() = %q, want empty after corrupted load", m.GetAgentID())
	}
}
