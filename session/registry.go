package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/render"
)

var (
	// ErrNotFound is returned for unknown or expired session ids
	ErrNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the registry is full
	ErrTooManySessions = errors.New("too many sessions")
)

type entry struct {
	mu sync.Mutex
	s  *Session
}

// Registry holds live sessions over one Data
type Registry struct {
	data        *Data
	opts        Options
	idleTimeout time.Duration
	maxSessions int

	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

// NewRegistry creates a registry. idleTimeout <= 0 disables expiry and
// maxSessions <= 0 disables the limit.
func NewRegistry(d *Data, opts Options, idleTimeout time.Duration, maxSessions int) *Registry {
	return &Registry{
		data:        d,
		opts:        opts,
		idleTimeout: idleTimeout,
		maxSessions: maxSessions,
		entries:     make(map[uuid.UUID]*entry),
	}
}

// Data returns the shared dataset view
func (r *Registry) Data() *Data { return r.data }

// Options returns the pass options used for new sessions
func (r *Registry) Options() Options { return r.opts }

// Create starts a session with the given projector
func (r *Registry) Create(proj render.Projector) (*Session, error) {
	r.mu.RLock()
	full := r.maxSessions > 0 && len(r.entries) >= r.maxSessions
	r.mu.RUnlock()
	if full {
		return nil, ErrTooManySessions
	}

	s := New(r.data, r.opts, proj)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.maxSessions > 0 && len(r.entries) >= r.maxSessions {
		return nil, ErrTooManySessions
	}
	r.entries[s.ID] = &entry{s: s}
	log.Debugw("session created", "id", s.ID, "sessions", len(r.entries))
	return s, nil
}

// Do runs fn with exclusive access to session id
func (r *Registry) Do(id uuid.UUID, fn func(*Session) error) error {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.s == nil {
		return ErrNotFound
	}
	e.s.touch(time.Now())
	return fn(e.s)
}

// Delete removes a session
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	e.s = nil
	e.mu.Unlock()
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep removes sessions idle since before now-idleTimeout and returns
// how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTimeout)

	r.mu.RLock()
	var stale []uuid.UUID
	for id, e := range r.entries {
		e.mu.Lock()
		if e.s != nil && e.s.LastUsed().Before(cutoff) {
			stale = append(stale, id)
		}
		e.mu.Unlock()
	}
	r.mu.RUnlock()

	for _, id := range stale {
		_ = r.Delete(id)
	}
	if len(stale) > 0 {
		log.Infow("expired idle sessions", "removed", len(stale), "remaining", r.Len())
	}
	return len(stale)
}

// Run sweeps idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTimeout <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}
