package handlers

import (
	"context"
	"time"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/session/runtime"
)

// SessionMutator is the subset of the per-session runtime used by
// protocol handlers. Every call serializes with other mutations for
// the same session id and returns only after the write is visible.
type SessionMutator interface {
	Update(ctx context.Context, sessionID string, mutate runtime.Mutation) (session.Session, error)
}

// Deps holds the narrow dependencies required by protocol handlers.
type Deps struct {
	sessions SessionMutator
	now      func() time.Time
}

// NewDeps builds a dependency bundle for handler calls.
func NewDeps(sessions SessionMutator, now func() time.Time) Deps {
	return Deps{sessions: sessions, now: now}
}

// Sessions returns the serialized session mutator.
func (d Deps) Sessions() SessionMutator { return d.sessions }

// Now returns the current time, or the injected test clock.
func (d Deps) Now() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}
