package models

import (
	"context"
	"sync"
)

// MemoryUsers implements UserStore in memory. Used when the server
// runs without a database path, and in tests.
type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

// NewMemoryUsers creates an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

// CreateUser inserts a user.
func (m *MemoryUsers) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byEmail[u.Email]; taken {
		return ErrEmailTaken
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u.ID
	return nil
}

// GetUserByEmail looks a user up by email.
func (m *MemoryUsers) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return m.byID[id], nil
}

// GetUserByID looks a user up by id.
func (m *MemoryUsers) GetUserByID(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}
