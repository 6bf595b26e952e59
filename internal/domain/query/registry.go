package query

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/closet/pkg/metrics"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("search session not found")

// Registry tracks open sessions by id.
type Registry struct {
	enq  Enqueuer
	opts []SessionOption

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry whose sessions dispatch through enq.
func NewRegistry(enq Enqueuer, opts ...SessionOption) *Registry {
	return &Registry{
		enq:      enq,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session with a fresh id.
func (r *Registry) Open() *Session {
	s := NewSession(uuid.NewString(), r.enq, r.opts...)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.UpdateSearchSessions(n)
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close closes and forgets a session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	metrics.UpdateSearchSessions(n)
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session.
func (r *Registry) CloseAll(_ context.Context) {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	metrics.UpdateSearchSessions(0)
}
