// Package sqlstore implements the session.Store interface on SQLite.
// The whole aggregate is written back in one transaction per Save, so
// a record is never partially applied.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelierhq/atelier-server/internal/session"
)

// Store persists session aggregates to SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a SQLite-backed session store.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// SetNow overrides the clock used for CreatedAt stamps. Test helper.
func (s *Store) SetNow(now func() time.Time) {
	s.now = now
}

// Get returns the session for id, or session.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (session.Session, error) {
	var (
		out       session.Session
		briefJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, brief FROM sessions WHERE id = ?`, id,
	).Scan(&out.ID, &out.CreatedAt, &briefJSON)
	if err == sql.ErrNoRows {
		return session.Session{}, session.ErrNotFound
	} else if err != nil {
		return session.Session{}, fmt.Errorf("load session: %w", err)
	}

	if err := json.Unmarshal([]byte(briefJSON), &out.Brief); err != nil {
		return session.Session{}, fmt.Errorf("decode brief: %w", err)
	}

	if out.Messages, err = s.loadMessages(ctx, id); err != nil {
		return session.Session{}, err
	}
	if out.Todos, err = s.loadTodos(ctx, id); err != nil {
		return session.Session{}, err
	}
	if out.Approvals, err = s.loadApprovals(ctx, id); err != nil {
		return session.Session{}, err
	}
	return out, nil
}

// Create returns the session for id, creating an empty record on first
// use.
func (s *Store) Create(ctx context.Context, id string) (session.Session, error) {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, created_at, brief)
VALUES (?, ?, '{}')
ON CONFLICT(id) DO NOTHING;
`, id, s.now().UnixMilli())
	if err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}
	return s.Get(ctx, id)
}

// Save overwrites the whole record keyed by sess.ID.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	briefJSON, err := json.Marshal(sess.Brief)
	if err != nil {
		return fmt.Errorf("encode brief: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO sessions (id, created_at, brief)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET brief = excluded.brief;
`, sess.ID, sess.CreatedAt, string(briefJSON))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	for table, stmt := range map[string]string{
		"session_messages":  `DELETE FROM session_messages WHERE session_id = ?`,
		"session_todos":     `DELETE FROM session_todos WHERE session_id = ?`,
		"session_approvals": `DELETE FROM session_approvals WHERE session_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, sess.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, msg := range sess.Messages {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_messages (session_id, seq, role, text, ts) VALUES (?, ?, ?, ?, ?)`,
			sess.ID, i, string(msg.Role), msg.Text, msg.TS)
		if err != nil {
			return fmt.Errorf("save message: %w", err)
		}
	}
	for i, todo := range sess.Todos {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_todos (session_id, seq, id, text, status) VALUES (?, ?, ?, ?, ?)`,
			sess.ID, i, todo.ID, todo.Text, string(todo.Status))
		if err != nil {
			return fmt.Errorf("save todo: %w", err)
		}
	}
	for i, appr := range sess.Approvals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_approvals (session_id, seq, ts, text) VALUES (?, ?, ?, ?)`,
			sess.ID, i, appr.TS, appr.Text)
		if err != nil {
			return fmt.Errorf("save approval: %w", err)
		}
	}

	return tx.Commit()
}

// List returns all stored sessions ordered by creation time, newest
// first. Used by the dashboard surface.
func (s *Store) List(ctx context.Context) ([]session.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]session.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

func (s *Store) loadMessages(ctx context.Context, id string) ([]session.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, text, ts FROM session_messages WHERE session_id = ? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	var out []session.Message
	for rows.Next() {
		var msg session.Message
		if err := rows.Scan((*string)(&msg.Role), &msg.Text, &msg.TS); err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func (s *Store) loadTodos(ctx context.Context, id string) ([]session.TodoItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, status FROM session_todos WHERE session_id = ? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	defer rows.Close()

	var out []session.TodoItem
	for rows.Next() {
		var todo session.TodoItem
		if err := rows.Scan(&todo.ID, &todo.Text, (*string)(&todo.Status)); err != nil {
			return nil, err
		}
		out = append(out, todo)
	}
	return out, rows.Err()
}

func (s *Store) loadApprovals(ctx context.Context, id string) ([]session.Approval, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, text FROM session_approvals WHERE session_id = ? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load approvals: %w", err)
	}
	defer rows.Close()

	var out []session.Approval
	for rows.Next() {
		var appr session.Approval
		if err := rows.Scan(&appr.TS, &appr.Text); err != nil {
			return nil, err
		}
		out = append(out, appr)
	}
	return out, rows.Err()
}
