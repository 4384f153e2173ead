package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/atelierhq/atelier-server/internal/database"
	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db.DB)
}

func TestStore_GetUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestStore_CreateIsGetOrCreate(t *testing.T) {
	store := newTestStore(t)
	store.SetNow(func() time.Time { return time.UnixMilli(42) })
	ctx := context.Background()

	created, err := store.Create(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, int64(42), created.CreatedAt)

	store.SetNow(func() time.Time { return time.UnixMilli(99) })
	again, err := store.Create(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, int64(42), again.CreatedAt)
}

func TestStore_SaveRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "s1")
	require.NoError(t, err)

	style := "bold"
	sess.Brief.Style = &style
	sess.Brief.Constraints = map[string]any{"pets": "two cats"}
	sess.AppendApproval(100, "UI_RESPONSE style_modern -> bold")
	sess.AppendMessage(session.RoleClient, "hello", 101)
	sess.Todos = []session.TodoItem{{ID: "t1", Text: "Confirm color palette", Status: session.TodoStatusOpen}}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "bold", *got.Brief.Style)
	require.Equal(t, map[string]any{"pets": "two cats"}, got.Brief.Constraints)
	require.Equal(t, sess.Approvals, got.Approvals)
	require.Equal(t, sess.Messages, got.Messages)
	require.Equal(t, sess.Todos, got.Todos)
}

func TestStore_SaveIsWholeRecordOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "s1")
	require.NoError(t, err)
	sess.Todos = []session.TodoItem{
		{ID: "t1", Text: "old", Status: session.TodoStatusOpen},
		{ID: "t2", Text: "old", Status: session.TodoStatusOpen},
	}
	require.NoError(t, store.Save(ctx, sess))

	sess.Todos = []session.TodoItem{{ID: "t3", Text: "new", Status: session.TodoStatusDone}}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Todos, 1)
	require.Equal(t, "t3", got.Todos[0].ID)
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.SetNow(func() time.Time { return time.UnixMilli(1) })
	_, err := store.Create(ctx, "older")
	require.NoError(t, err)
	store.SetNow(func() time.Time { return time.UnixMilli(2) })
	_, err = store.Create(ctx, "newer")
	require.NoError(t, err)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "newer", sessions[0].ID)
	require.Equal(t, "older", sessions[1].ID)
}
