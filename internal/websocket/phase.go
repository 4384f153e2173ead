package websocket

import (
	"context"

	"github.com/qmuntal/stateless"
)

// Conversation phases. The session record itself carries no phase
// field (state is inferred from its shape); the phase machine is
// per-connection bookkeeping that makes the to-do handshake's terminal
// transition explicit and observable in logs.
const (
	phaseConsulting = "consulting"
	phaseReviewing  = "reviewing"
	phaseFinished   = "finished"
)

const (
	triggerPromptAnswered = "prompt-answered"
	triggerNoteAdded      = "note-added"
	triggerTodoRejected   = "todo-rejected"
	triggerTodoConfirmed  = "todo-confirmed"
)

// conversationPhase tracks where one connection is in the
// consultation flow. Finished is terminal: once entered, the
// connection processes no further messages.
type conversationPhase struct {
	fsm *stateless.StateMachine
}

func newConversationPhase() *conversationPhase {
	fsm := stateless.NewStateMachine(phaseConsulting)

	fsm.Configure(phaseConsulting).
		PermitReentry(triggerPromptAnswered).
		PermitReentry(triggerNoteAdded).
		Permit(triggerTodoRejected, phaseReviewing).
		Permit(triggerTodoConfirmed, phaseFinished)

	fsm.Configure(phaseReviewing).
		Permit(triggerPromptAnswered, phaseConsulting).
		PermitReentry(triggerNoteAdded).
		PermitReentry(triggerTodoRejected).
		Permit(triggerTodoConfirmed, phaseFinished)

	fsm.Configure(phaseFinished)

	// Unmatched triggers (e.g. anything after Finished) are ignored
	// rather than treated as errors.
	fsm.OnUnhandledTrigger(func(_ context.Context, _ stateless.State, _ stateless.Trigger, _ []string) error {
		return nil
	})

	return &conversationPhase{fsm: fsm}
}

func (p *conversationPhase) fire(trigger string) {
	// Cannot fail: every configured trigger transitions and the rest
	// fall through to the unhandled-trigger hook.
	_ = p.fsm.Fire(trigger)
}

func (p *conversationPhase) current() string {
	return p.fsm.MustState().(string)
}

func (p *conversationPhase) finished() bool {
	return p.current() == phaseFinished
}
