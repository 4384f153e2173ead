package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Store.Get for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store is the seam behind which session persistence lives. Callers
// read-modify-write whole records; there is no partial-field update
// primitive.
type Store interface {
	// Get returns the session for id, or ErrNotFound.
	Get(ctx context.Context, id string) (Session, error)
	// Create returns the session for id, creating an empty one if it
	// does not exist yet.
	Create(ctx context.Context, id string) (Session, error)
	// Save overwrites the whole record keyed by session.ID.
	Save(ctx context.Context, s Session) error
}

// MemoryStore is a mutex-guarded in-memory Store. It is the default in
// tests and when the server runs without a database path.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// SetNow overrides the clock used for CreatedAt stamps. Test helper.
func (s *MemoryStore) SetNow(now func() time.Time) {
	s.now = now
}

// Get returns the session for id, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess.Clone(), nil
}

// Create returns the session for id, creating an empty one on first
// use.
func (s *MemoryStore) Create(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.Clone(), nil
	}
	sess := New(id, s.now().UnixMilli())
	s.sessions[id] = sess
	return sess.Clone(), nil
}

// Save overwrites the stored record for sess.ID.
func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// List returns all stored sessions. Used by the dashboard surface.
func (s *MemoryStore) List(_ context.Context) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out, nil
}
