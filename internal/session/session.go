// Package session manages live debugger sessions: each one holds a
// compiled program and its stepping state, addressed by a UUID.
package session

import (
	"sync"
	"time"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/interp"
)

// Session is one live debugging session. All access to the machine
// state goes through the session's lock; concurrent step requests on
// the same session serialize rather than race.
type Session struct {
	ID         string
	Source     string
	Simplified string

	mu         sync.Mutex
	state      *interp.State
	lastActive time.Time
}

func New(id, source, simplified string, state *interp.State) *Session {
	return &Session{
		ID:         id,
		Source:     source,
		Simplified: simplified,
		state:      state,
		lastActive: time.Now(),
	}
}

func (s *Session) touch() { s.lastActive = time.Now() }

// LastActive reports when the session was last stepped, inspected or
// reset.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Step advances the machine one instruction and returns the resulting
// snapshot. Stepping a finished session returns the final snapshot
// unchanged.
func (s *Session) Step() (*interp.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.state.Step(); err != nil {
		return nil, false, err
	}
	return s.state.Snapshot(), s.state.Finished(), nil
}

// Snapshot returns the current machine state without advancing it.
func (s *Session) Snapshot() (*interp.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	return s.state.Snapshot(), s.state.Finished()
}

// Restart rewinds the session to the initial state of its program.
func (s *Session) Restart() (*interp.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	state, err := interp.NewState(s.state.Program())
	if err != nil {
		return nil, false, err
	}
	s.state = state
	return state.Snapshot(), state.Finished(), nil
}

// Replace swaps in a new program, resetting the machine to its start.
func (s *Session) Replace(source, simplified string, state *interp.State) (*interp.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.Source = source
	s.Simplified = simplified
	s.state = state
	return state.Snapshot(), state.Finished()
}
