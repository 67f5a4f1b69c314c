package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/PraneethJain/simplipy-backend/internal/config"
)

var (
	ErrNotFound = errors.New("session registry: session not found")
	ErrCapacity = errors.New("session registry: session limit reached")
)

// Registry is the in-memory store of live sessions. It enforces a
// capacity cap and evicts sessions idle beyond the configured TTL.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxSessions int
	idleTTL     time.Duration
}

func NewRegistry(opts *config.SessionOptions) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		maxSessions: opts.MaxSessions,
		idleTTL:     opts.IdleTTL.Duration,
	}
}

func (r *Registry) Put(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return ErrCapacity
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions whose last activity is older than the idle TTL
// and returns how many were removed. A zero TTL disables eviction.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.LastActive()) > r.idleTTL {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Reap sweeps idle sessions on every tick until the context is
// canceled.
func (r *Registry) Reap(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Session reaper stopped.")
			return ctx.Err()
		case now := <-ticker.C:
			if removed := r.Sweep(now); removed > 0 {
				slog.Info("Evicted idle sessions.", "count", removed, "live", r.Len())
			}
		}
	}
}
