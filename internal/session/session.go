package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MaxRecent bounds the recent locations list
const MaxRecent = 8

// Session holds state carried between runs
type Session struct {
	LastLocation string   `json:"last_location,omitempty"`
	Recent       []string `json:"recent,omitempty"` // Most recent first
}

// Manager handles loading and saving the session
type Manager struct {
	path         string
	session      Session
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a session manager writing to path. An empty path uses
// DefaultPath.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	return &Manager{
		path:         path,
		saveDuration: 2 * time.Second,
	}
}

// DefaultPath returns the default session file path
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "foldergrid", "session.json")
	}
	return ".foldergrid-session.json"
}

// Load loads the session from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.session = Session{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.session)
}

// Save writes the session immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

// saveLocked saves without acquiring the lock (caller must hold lock)
func (m *Manager) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// LastLocation returns the location shown when the previous run ended
func (m *Manager) LastLocation() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.LastLocation
}

// Recent returns a copy of the recent locations, most recent first
func (m *Manager) Recent() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.session.Recent...)
}

// Visit records path as the current location and schedules a debounced save
func (m *Manager) Visit(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.LastLocation == path && len(m.session.Recent) > 0 && m.session.Recent[0] == path {
		return
	}

	m.session.LastLocation = path
	recent := []string{path}
	for _, p := range m.session.Recent {
		if p != path && len(recent) < MaxRecent {
			recent = append(recent, p)
		}
	}
	m.session.Recent = recent
	m.dirty = true

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // Ignore errors for background save
		}
	})
}

// Close ensures any pending saves are written
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
