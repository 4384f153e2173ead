package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/atelierhq/atelier-server/internal/logger"
	"github.com/atelierhq/atelier-server/internal/session/runtime"
	"github.com/atelierhq/atelier-server/internal/websocket/handlers"
	"github.com/atelierhq/atelier-server/internal/wire"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

// maxFrameBytes bounds inbound frame size; larger frames fail the read
// and end the connection.
const maxFrameBytes = 64 * 1024

var upgrader = gorilla.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced by the HTTP layer
	},
}

// Server owns the session WebSocket endpoint: one logical
// session-to-connection binding per open connection.
type Server struct {
	hub     *Hub
	runtime *runtime.Manager
	deps    handlers.Deps
}

// NewServer creates the WebSocket server on top of the per-session
// runtime.
func NewServer(rt *runtime.Manager, hub *Hub) *Server {
	return &Server{
		hub:     hub,
		runtime: rt,
		deps:    handlers.NewDeps(rt, time.Now),
	}
}

// Hub returns the connection registry, for server-initiated emissions.
func (s *Server) Hub() *Hub {
	return s.hub
}

// HandleWebSocket handles GET /ws?sessionId=<id>.
func (s *Server) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[ws] upgrade error: %v", err)
		return
	}

	cl := &client{conn: conn}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		// No session established, no store entry created.
		cl.close(gorilla.ClosePolicyViolation, "Missing sessionId parameter")
		return
	}
	cl.sessionID = sessionID

	ctx := c.Request.Context()
	if _, err := s.runtime.GetOrCreate(ctx, sessionID); err != nil {
		logger.Errorf("[ws] session %s load error: %v", sessionID, err)
		cl.send(wire.NewError("failed to load session"))
		cl.close(gorilla.CloseInternalServerErr, "Session unavailable")
		return
	}

	s.hub.register(cl)
	defer func() {
		s.hub.unregister(cl)
		cl.conn.Close()
	}()

	logger.Infof("[ws] session %s connected", sessionID)
	s.readLoop(cl)
	logger.Infof("[ws] session %s disconnected", sessionID)
}

// readLoop processes frames strictly in arrival order. Each message's
// store mutation completes before the next frame is read, and failures
// are contained per message: an ERROR reply is sent and the loop
// continues.
func (s *Server) readLoop(cl *client) {
	conn := cl.conn
	conn.SetReadLimit(maxFrameBytes)

	phase := newConversationPhase()
	ctx := context.Background()

	for !phase.finished() {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				logger.Warnf("[ws] session %s read error: %v", cl.sessionID, err)
			}
			return
		}

		msg, parseErr := wire.ParseInbound(data)
		if parseErr != nil {
			if sendErr := cl.send(wire.NewError(parseErr.Error())); sendErr != nil {
				return
			}
			continue
		}

		res := handlers.Handle(ctx, s.deps, cl.sessionID, msg)
		for _, reply := range res.Replies() {
			if err := cl.send(reply); err != nil {
				logger.Warnf("[ws] session %s write error: %v", cl.sessionID, err)
				return
			}
		}
		if !resultFailed(res) {
			if trigger := triggerFor(msg); trigger != "" {
				phase.fire(trigger)
			}
		}
		if directive := res.Close(); directive != nil {
			logger.Infof("[ws] session %s closing (%s): %s", cl.sessionID, phase.current(), directive.Reason())
			cl.close(directive.Code(), directive.Reason())
			return
		}
	}
}

// resultFailed reports whether the handler surfaced a per-message
// error. Failed messages advance no conversation phase.
func resultFailed(res handlers.EventResult) bool {
	for _, reply := range res.Replies() {
		if _, ok := reply.(wire.Error); ok {
			return true
		}
	}
	return false
}

// triggerFor maps an inbound message to its phase trigger. PING is
// pure liveness and advances nothing.
func triggerFor(msg any) string {
	switch m := msg.(type) {
	case *wire.UIResponse:
		return triggerPromptAnswered
	case *wire.AgentNote:
		return triggerNoteAdded
	case *wire.TodoConfirm:
		if m.OK {
			return triggerTodoConfirmed
		}
		return triggerTodoRejected
	default:
		return ""
	}
}
