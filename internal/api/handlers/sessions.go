package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/session/runtime"
	"github.com/atelierhq/atelier-server/internal/wire"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionEmitter pushes server-initiated frames to a session's live
// connections.
type SessionEmitter interface {
	EmitToSession(sessionID string, payload any)
}

// SessionHandler serves the session bootstrap CRUD plus the agent
// webhooks that drive UI prompts, to-do lists, and transcripts.
type SessionHandler struct {
	runtime *runtime.Manager
	emitter SessionEmitter
}

// NewSessionHandler creates the session HTTP surface.
func NewSessionHandler(rt *runtime.Manager, emitter SessionEmitter) *SessionHandler {
	return &SessionHandler{runtime: rt, emitter: emitter}
}

// CreateSession handles POST /session: mints a fresh id and an empty
// record.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	id := uuid.NewString()
	sess, err := h.runtime.GetOrCreate(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// GetSession handles GET /session/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.runtime.Get(c.Request.Context(), c.Param("id"))
	if err == session.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

type promptRequest struct {
	PromptID string                `json:"promptId" binding:"required"`
	Title    string                `json:"title" binding:"required"`
	Options  []wire.UIPromptOption `json:"options" binding:"required,min=1"`
}

// PushPrompt handles POST /session/:id/prompt: the agent asks the
// client UI to render a structured choice.
func (h *SessionHandler) PushPrompt(c *gin.Context) {
	ok, sessionID := h.requireSession(c)
	if !ok {
		return
	}

	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.emitter.EmitToSession(sessionID, wire.NewUIPrompt(req.PromptID, req.Title, req.Options))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type todosRequest struct {
	Items []string `json:"items" binding:"required,min=1"`
}

// PushTodos handles POST /session/:id/todos: the agent proposes the
// to-do list once it considers the brief complete. The list replaces
// the session's todos and is offered to connected clients for
// confirmation.
func (h *SessionHandler) PushTodos(c *gin.Context) {
	ok, sessionID := h.requireSession(c)
	if !ok {
		return
	}

	var req todosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.runtime.Update(c.Request.Context(), sessionID, func(s *session.Session) error {
		todos := make([]session.TodoItem, len(req.Items))
		for i, text := range req.Items {
			todos[i] = session.TodoItem{
				ID:     uuid.NewString(),
				Text:   text,
				Status: session.TodoStatusOpen,
			}
		}
		s.Todos = todos
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save todos"})
		return
	}

	h.emitter.EmitToSession(sessionID, wire.NewTodoPreview(req.Items))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type transcriptRequest struct {
	Role string `json:"role" binding:"required,oneof=client agent"`
	Text string `json:"text" binding:"required"`
	TS   int64  `json:"ts" binding:"required"`
}

// AppendTranscript handles POST /session/:id/transcript: the voice
// pipeline records a conversation turn.
func (h *SessionHandler) AppendTranscript(c *gin.Context) {
	ok, sessionID := h.requireSession(c)
	if !ok {
		return
	}

	var req transcriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.runtime.Update(c.Request.Context(), sessionID, func(s *session.Session) error {
		s.AppendMessage(session.Role(req.Role), req.Text, req.TS)
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save transcript"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// requireSession resolves :id to an existing session, replying 404
// when absent.
func (h *SessionHandler) requireSession(c *gin.Context) (bool, string) {
	sessionID := c.Param("id")
	_, err := h.runtime.Get(c.Request.Context(), sessionID)
	if err == session.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return false, ""
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return false, ""
	}
	return true, sessionID
}
