// Package models holds user records and their query layers. Session
// aggregates live in internal/session behind the store seam; users are
// the thin external-collaborator surface for bearer auth.
package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registering an already-used email.
var ErrEmailTaken = errors.New("email already registered")

// User is a registered dashboard/agent user.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    int64
}

// UserStore is the persistence seam for users.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
}

// Queries implements UserStore on SQLite.
type Queries struct {
	db *sql.DB
}

// New creates the SQL query layer.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// CreateUser inserts a user row.
func (q *Queries) CreateUser(ctx context.Context, u User) error {
	_, err := q.db.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, created_at)
VALUES (?, ?, ?, ?);
`, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return q.scanUser(q.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email))
}

// GetUserByID looks a user up by id.
func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	return q.scanUser(q.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (q *Queries) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrUserNotFound
	} else if err != nil {
		return User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
