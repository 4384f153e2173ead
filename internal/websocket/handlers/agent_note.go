package handlers

import (
	"context"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/wire"
)

// AgentNote records a free-text agent remark in the approval log.
// The marker prefix lets the dashboard distinguish agent notes from
// client decisions.
func AgentNote(ctx context.Context, deps Deps, sessionID string, req *wire.AgentNote) EventResult {
	_, err := deps.Sessions().Update(ctx, sessionID, func(s *session.Session) error {
		s.AppendApproval(deps.Now().UnixMilli(), "AGENT_NOTE: "+req.Message)
		return nil
	})
	if err != nil {
		return NewEventResult(wire.NewError("failed to record note"))
	}
	return NewEventResult()
}
