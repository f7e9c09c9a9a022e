// Package state persists the small bits of agent identity that should
// survive restarts: the ingest-assigned agent ID and the last scan time.
// The certificate checks themselves are stateless.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State holds persisted agent state
type State struct {
	AgentID     string    `json:"agent_id,omitempty"`
	LastScanAt  time.Time `json:"last_scan_at,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// Manager handles state persistence
type Manager struct {
	filePath string
	state    *State
	mu       sync.RWMutex
}

// stateFileName is the name of the state file stored alongside the config
const stateFileName = ".certsight-state.json"

// NewManager creates a state manager for the given config file path.
// The state file lives in the same directory as the config file.
func NewManager(configPath string) *Manager {
	dir := filepath.Dir(configPath)
	return &Manager{
		filePath: filepath.Join(dir, stateFileName),
		state:    &State{},
	}
}

// Load reads state from disk. A missing file is a first run, not an
// error; a corrupted file is reported but treated as a first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{}
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		m.state = &State{}
		return fmt.Errorf("failed to parse state file (treating as first run): %w", err)
	}

	m.state = state
	return nil
}

// Save writes state to disk with owner-only permissions.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(m.filePath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// GetAgentID returns the persisted agent ID
func (m *Manager) GetAgentID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.AgentID
}

// SetAgentID sets the agent ID (call Save() to persist)
func (m *Manager) SetAgentID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.AgentID = id
}

// GetLastScanAt returns the last scan timestamp
func (m *Manager) GetLastScanAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LastScanAt
}

// SetLastScanAt sets the last scan timestamp (call Save() to persist)
func (m *Manager) SetLastScanAt(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastScanAt = t
}

// FilePath returns the path to the state file
func (m *Manager) FilePath() string {
	return m.filePath
}
