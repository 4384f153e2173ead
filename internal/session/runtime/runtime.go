// Package runtime serializes all mutations for a session id through a
// single-owner goroutine. The wire protocol requires each message's
// store mutation to be durably visible before the next message on the
// same connection is processed, and concurrent connections may share a
// session id; funnelling every read-modify-write cycle through one
// runner per session closes the lost-update race between them.
package runtime

import (
	"context"
	"sync"

	"github.com/atelierhq/atelier-server/internal/logger"
	"github.com/atelierhq/atelier-server/internal/session"
)

// Manager owns per-session runners and provides serialized entrypoints.
type Manager struct {
	store session.Store

	mu      sync.Mutex
	runners map[string]*sessionRunner
}

// NewManager creates a per-session runtime manager on top of a store.
func NewManager(store session.Store) *Manager {
	return &Manager{
		store:   store,
		runners: make(map[string]*sessionRunner),
	}
}

// Mutation is a read-modify-write step. It receives the current record
// and returns the record to save. Returning an error aborts the cycle
// without writing.
type Mutation func(s *session.Session) error

// GetOrCreate loads the session for id, creating an empty one on first
// use, serialized with any in-flight mutations for the same id.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (session.Session, error) {
	var out session.Session
	err := m.run(ctx, sessionID, func() error {
		var err error
		out, err = m.store.Create(ctx, sessionID)
		return err
	})
	return out, err
}

// Get loads the session for id without creating it.
func (m *Manager) Get(ctx context.Context, sessionID string) (session.Session, error) {
	var out session.Session
	err := m.run(ctx, sessionID, func() error {
		var err error
		out, err = m.store.Get(ctx, sessionID)
		return err
	})
	return out, err
}

// Update runs a read-modify-write cycle for sessionID and returns the
// saved record. The cycle is atomic with respect to every other Update
// or GetOrCreate for the same id; the call returns only after the
// write is durably visible to subsequent reads.
func (m *Manager) Update(ctx context.Context, sessionID string, mutate Mutation) (session.Session, error) {
	var out session.Session
	err := m.run(ctx, sessionID, func() error {
		current, err := m.store.Create(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := mutate(&current); err != nil {
			return err
		}
		if err := m.store.Save(ctx, current); err != nil {
			return err
		}
		out = current
		return nil
	})
	return out, err
}

func (m *Manager) run(ctx context.Context, sessionID string, fn func() error) error {
	done := make(chan error, 1)
	r := m.getOrCreateRunner(sessionID)
	r.enqueue(task{fn: fn, done: done})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) getOrCreateRunner(sessionID string) *sessionRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.runners[sessionID]; ok {
		return r
	}
	r := newSessionRunner(sessionID)
	m.runners[sessionID] = r
	return r
}

type task struct {
	fn   func() error
	done chan error
}

type sessionRunner struct {
	sessionID string
	tasks     chan task

	startOnce sync.Once
}

func newSessionRunner(sessionID string) *sessionRunner {
	return &sessionRunner{
		sessionID: sessionID,
		tasks:     make(chan task, 64),
	}
}

func (r *sessionRunner) enqueue(t task) {
	r.startOnce.Do(func() { go r.loop() })
	r.tasks <- t
}

func (r *sessionRunner) loop() {
	for t := range r.tasks {
		err := t.fn()
		if err != nil {
			logger.Debugf("[runtime] session %s task error: %v", r.sessionID, err)
		}
		t.done <- err
	}
}
