package handlers

import (
	"context"

	"github.com/atelierhq/atelier-server/internal/wire"
)

// Handle routes a parsed inbound message to its handler.
func Handle(ctx context.Context, deps Deps, sessionID string, msg any) EventResult {
	switch m := msg.(type) {
	case *wire.UIResponse:
		return UIResponse(ctx, deps, sessionID, m)
	case *wire.TodoConfirm:
		return TodoConfirm(ctx, deps, sessionID, m)
	case *wire.AgentNote:
		return AgentNote(ctx, deps, sessionID, m)
	case *wire.Ping:
		// Liveness probe; touches no session state.
		return NewEventResult(wire.NewPong(m.TS))
	default:
		return NewEventResult(wire.NewError("unhandled message"))
	}
}

// Dispatch parses one inbound frame and routes it. Parse and handler
// failures are contained per message: the result carries an ERROR
// reply and the connection stays open.
func Dispatch(ctx context.Context, deps Deps, sessionID string, frame []byte) EventResult {
	msg, err := wire.ParseInbound(frame)
	if err != nil {
		return NewEventResult(wire.NewError(err.Error()))
	}
	return Handle(ctx, deps, sessionID, msg)
}
