package session

import (
	"sync"

	"github.com/pipetube-cli/pipetube/log"
)

// Manager enforces that at most one coordinator is alive at a time. Activating
// a new session stops the previous one; the two never share an engine or a
// queue.
type Manager struct {
	mu     sync.Mutex
	active *Coordinator
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Activate installs the coordinator as the active session, shutting down any
// previously active one first.
func (m *Manager) Activate(c *Coordinator) {
	m.mu.Lock()
	previous := m.active
	m.active = c
	m.mu.Unlock()

	if previous != nil && previous != c {
		log.Infof("session: replacing active %s session", previous.Mode())
		if err := previous.Close(); err != nil {
			log.Warnf("session: previous session shutdown: %v", err)
		}
	}
}

// Active returns the currently active coordinator, nil when none.
func (m *Manager) Active() *Coordinator {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Stop shuts down the active session, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	active := m.active
	m.active = nil
	m.mu.Unlock()

	if active != nil {
		if err := active.Close(); err != nil {
			log.Warnf("session: shutdown: %v", err)
		}
	}
}
