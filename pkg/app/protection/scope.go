package protection

import (
	"sync"

	"github.com/google/uuid"
)

// Scope holds the in-progress flag of one monitored tab. It is entered on
// the taking view of a live session and exited on navigation away, close
// or termination.
type Scope struct {
	mu        sync.RWMutex
	sessionID *uuid.UUID
}

func NewScope() *Scope {
	return &Scope{}
}

func (s *Scope) Enter(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = &sessionID
}

// Exit clears the flag and reports whether it was set.
func (s *Scope) Exit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.sessionID != nil
	s.sessionID = nil
	return was
}

func (s *Scope) InProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID != nil
}

// InProgressFor reports whether the scope is entered for sessionID.
func (s *Scope) InProgressFor(sessionID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID != nil && *s.sessionID == sessionID
}
