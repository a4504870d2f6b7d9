package proctor

import (
	"sync"

	"github.com/google/uuid"
)

// Registry indexes the live monitors of this instance by session so a
// termination decided anywhere reaches every open tab.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[*Monitor]struct{}
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]map[*Monitor]struct{})}
}

func (r *Registry) Add(sessionID uuid.UUID, m *Monitor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sessions[sessionID]
	if !ok {
		set = make(map[*Monitor]struct{})
		r.sessions[sessionID] = set
	}
	set[m] = struct{}{}
}

func (r *Registry) Remove(sessionID uuid.UUID, m *Monitor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(set, m)
	if len(set) == 0 {
		delete(r.sessions, sessionID)
	}
}

func (r *Registry) Count(sessionID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[sessionID])
}

// StopSession terminates every local monitor of sessionID and returns how
// many were notified.
func (r *Registry) StopSession(sessionID uuid.UUID, reason string) int {
	r.mu.RLock()
	monitors := make([]*Monitor, 0, len(r.sessions[sessionID]))
	for m := range r.sessions[sessionID] {
		monitors = append(monitors, m)
	}
	r.mu.RUnlock()

	for _, m := range monitors {
		m.StopSession(sessionID, reason)
	}
	return len(monitors)
}
