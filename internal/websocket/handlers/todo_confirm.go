package handlers

import (
	"context"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/wire"
	gorilla "github.com/gorilla/websocket"
)

// TodoConfirm runs the to-do confirmation handshake. Acceptance
// concludes the session: the client receives CALL_FINISHED and the
// connection closes with a normal closure code. Rejection re-offers
// the fixed fallback review list and keeps the connection open.
func TodoConfirm(ctx context.Context, deps Deps, sessionID string, req *wire.TodoConfirm) EventResult {
	verdict := "rejected"
	if req.OK {
		verdict = "accepted"
	}

	_, err := deps.Sessions().Update(ctx, sessionID, func(s *session.Session) error {
		s.AppendApproval(deps.Now().UnixMilli(), "TODO_CONFIRM "+verdict)
		return nil
	})
	if err != nil {
		return NewEventResult(wire.NewError("failed to record confirmation"))
	}

	if req.OK {
		return NewEventResultWithClose(gorilla.CloseNormalClosure, "Call finished",
			wire.NewCallFinished(sessionID))
	}
	return NewEventResult(wire.NewTodoPreview(nil))
}
