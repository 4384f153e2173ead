package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/atelierhq/atelier-server/internal/wire"
)

// UIResponse applies a client prompt choice to the session brief and
// records it in the approval log. The promptId prefix selects the
// brief field; anything unrecognized lands in the constraints bag.
func UIResponse(ctx context.Context, deps Deps, sessionID string, req *wire.UIResponse) EventResult {
	update := classifyPromptID(req.PromptID, req.SelectedOptionID)
	approval := fmt.Sprintf("UI_RESPONSE %s -> %s", req.PromptID, req.SelectedOptionID)

	_, err := deps.Sessions().Update(ctx, sessionID, func(s *session.Session) error {
		s.AppendApproval(deps.Now().UnixMilli(), approval)
		s.Brief = session.MergeBrief(s.Brief, update)
		return nil
	})
	if err != nil {
		return NewEventResult(wire.NewError("failed to record response"))
	}

	// No acknowledgement required.
	return NewEventResult()
}

// classifyPromptID maps a prompt id to a brief update. Case-insensitive
// prefix match on "style", "palette", and "finish" replaces that scalar
// field; any other prefix merges {promptId: selectedOptionId} into the
// constraints map.
func classifyPromptID(promptID, selectedOptionID string) session.BriefUpdate {
	lower := strings.ToLower(promptID)
	switch {
	case strings.HasPrefix(lower, "style"):
		return session.BriefUpdate{Style: &selectedOptionID}
	case strings.HasPrefix(lower, "palette"):
		return session.BriefUpdate{Palette: &selectedOptionID}
	case strings.HasPrefix(lower, "finish"):
		return session.BriefUpdate{Finish: &selectedOptionID}
	default:
		return session.BriefUpdate{Constraints: map[string]any{promptID: selectedOptionID}}
	}
}
