package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lumina/internal/domain"
)

// Registry owns every live session
type Registry struct {
	deps   *Deps
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. Sessions idle for longer than ttl are
// closed by Reap; ttl <= 0 disables expiry.
func NewRegistry(deps *Deps, ttl time.Duration) *Registry {
	return &Registry{
		deps:     deps,
		ttl:      ttl,
		logger:   deps.Logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session seeded from the fixtures
func (r *Registry) Create() *Session {
	s := New(r.deps.NewID(), r.deps)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("session created", "session_id", s.ID(), "active", count)
	return s
}

// Get returns the session and records activity on it
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("session %q not found", id)}
	}
	s.Touch(r.deps.Clock.Now())
	return s, nil
}

// Delete tears a session down and forgets it
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("session %q not found", id)}
	}
	s.Close()
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap closes sessions idle for longer than the TTL and returns how many
func (r *Registry) Reap() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.deps.Clock.Now().Add(-r.ttl)

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("idle sessions reaped", "count", len(expired))
	}
	return len(expired)
}

// Run reaps idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Reap()
		case <-ctx.Done():
			return
		}
	}
}

// CloseAll tears down every session, used on shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
