package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/session/runtime"
	"github.com/atelierhq/atelier-server/internal/wire"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeEmitter struct {
	emissions []struct {
		sessionID string
		payload   any
	}
}

func (f *fakeEmitter) EmitToSession(sessionID string, payload any) {
	f.emissions = append(f.emissions, struct {
		sessionID string
		payload   any
	}{sessionID, payload})
}

type sessionTestEnv struct {
	store   *session.MemoryStore
	emitter *fakeEmitter
	router  *gin.Engine
}

func newSessionTestEnv(t *testing.T) *sessionTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore()
	emitter := &fakeEmitter{}
	h := NewSessionHandler(runtime.NewManager(store), emitter)

	router := gin.New()
	router.POST("/session", h.CreateSession)
	router.GET("/session/:id", h.GetSession)
	router.POST("/session/:id/prompt", h.PushPrompt)
	router.POST("/session/:id/todos", h.PushTodos)
	router.POST("/session/:id/transcript", h.AppendTranscript)

	return &sessionTestEnv{store: store, emitter: emitter, router: router}
}

func (e *sessionTestEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestCreateSession(t *testing.T) {
	env := newSessionTestEnv(t)

	w := env.do(t, http.MethodPost, "/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Session session.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Session.ID)
	require.Empty(t, resp.Session.Approvals)

	stored, err := env.store.Get(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	require.Equal(t, resp.Session.CreatedAt, stored.CreatedAt)
}

func TestGetSession_NotFound(t *testing.T) {
	env := newSessionTestEnv(t)

	w := env.do(t, http.MethodGet, "/session/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPushPrompt_EmitsToSession(t *testing.T) {
	env := newSessionTestEnv(t)
	_, err := env.store.Create(context.Background(), "s1")
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/session/s1/prompt",
		`{"promptId":"palette_warm","title":"Pick a palette","options":[{"id":"earth","label":"Earth tones","image":"earth.png"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, env.emitter.emissions, 1)
	prompt, ok := env.emitter.emissions[0].payload.(wire.UIPrompt)
	require.True(t, ok)
	require.Equal(t, "palette_warm", prompt.PromptID)
	require.Equal(t, "s1", env.emitter.emissions[0].sessionID)
}

func TestPushPrompt_UnknownSession(t *testing.T) {
	env := newSessionTestEnv(t)

	w := env.do(t, http.MethodPost, "/session/nope/prompt",
		`{"promptId":"p","title":"t","options":[{"id":"a","label":"A","image":""}]}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Empty(t, env.emitter.emissions)
}

func TestPushTodos_SavesAndEmits(t *testing.T) {
	env := newSessionTestEnv(t)
	_, err := env.store.Create(context.Background(), "s1")
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/session/s1/todos",
		`{"items":["Order paint","Clear the room"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored.Todos, 2)
	require.Equal(t, "Order paint", stored.Todos[0].Text)
	require.Equal(t, session.TodoStatusOpen, stored.Todos[0].Status)
	require.NotEmpty(t, stored.Todos[0].ID)

	require.Len(t, env.emitter.emissions, 1)
	preview, ok := env.emitter.emissions[0].payload.(wire.TodoPreview)
	require.True(t, ok)
	require.Equal(t, []string{"Order paint", "Clear the room"}, preview.Items)
}

func TestAppendTranscript(t *testing.T) {
	env := newSessionTestEnv(t)
	_, err := env.store.Create(context.Background(), "s1")
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/session/s1/transcript",
		`{"role":"client","text":"I want something bold","ts":123}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored.Messages, 1)
	require.Equal(t, session.RoleClient, stored.Messages[0].Role)
	require.Equal(t, "I want something bold", stored.Messages[0].Text)
}

func TestAppendTranscript_RejectsBadRole(t *testing.T) {
	env := newSessionTestEnv(t)
	_, err := env.store.Create(context.Background(), "s1")
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/session/s1/transcript",
		`{"role":"narrator","text":"x","ts":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
