package handlers

import (
	"context"
	"time"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/session/runtime"
)

// fakeSessions applies mutations to an in-memory record without the
// actor machinery. failWith simulates a store outage.
type fakeSessions struct {
	record   session.Session
	failWith error
}

func (f *fakeSessions) Update(_ context.Context, sessionID string, mutate runtime.Mutation) (session.Session, error) {
	if f.failWith != nil {
		return session.Session{}, f.failWith
	}
	if f.record.ID == "" {
		f.record = session.New(sessionID, 1)
	}
	if err := mutate(&f.record); err != nil {
		return session.Session{}, err
	}
	return f.record.Clone(), nil
}

func testDeps(sessions SessionMutator) Deps {
	return NewDeps(sessions, func() time.Time { return time.UnixMilli(1000) })
}
