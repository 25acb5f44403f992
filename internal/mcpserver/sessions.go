package mcpserver

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playpals/studio/internal/apply"
)

// formSession wraps a controller with the lock that serialises tool calls
// against it. Controllers themselves are single-writer.
type formSession struct {
	mu       sync.Mutex
	ctrl     *apply.Controller
	lastUsed time.Time
}

// sessionIdleTimeout is how long an untouched session is kept before the
// next open discards it.
const sessionIdleTimeout = 30 * time.Minute

type registry struct {
	mu       sync.Mutex
	sessions map[string]*formSession
	idle     time.Duration
	now      func() time.Time
}

func newRegistry() *registry {
	return &registry{
		sessions: make(map[string]*formSession),
		idle:     sessionIdleTimeout,
		now:      time.Now,
	}
}

// open registers a controller for def and returns its session id.
// Sessions idle for longer than the timeout are dropped first.
func (r *registry) open(def apply.Definition) (string, error) {
	ctrl, err := apply.NewController(def)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.sessions[id] = &formSession{ctrl: ctrl, lastUsed: r.now()}
	return id, nil
}

func (r *registry) sweepLocked() {
	cutoff := r.now().Add(-r.idle)
	for id, sess := range r.sessions {
		sess.mu.Lock()
		stale := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(r.sessions, id)
		}
	}
}

// with runs fn holding the session's lock. It reports false when no
// session has that id.
func (r *registry) with(id string, fn func(*apply.Controller)) bool {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = r.now()
	fn(sess.ctrl)
	return true
}

func (r *registry) close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *registry) reset() {
	r.mu.Lock()
	r.sessions = make(map[string]*formSession)
	r.mu.Unlock()
}
