package session

// Role identifies the speaker of a transcript turn.
type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
)

// TodoStatus is the lifecycle state of a to-do item.
type TodoStatus string

const (
	TodoStatusOpen TodoStatus = "todo"
	TodoStatusDone TodoStatus = "done"
)

// Message is one transcript turn. Turns are append-only and come from
// the voice transcript webhook; the realtime protocol never mutates
// them.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// TodoItem is one entry of the session's to-do list.
type TodoItem struct {
	ID     string     `json:"id"`
	Text   string     `json:"text"`
	Status TodoStatus `json:"status"`
}

// Approval is an immutable, timestamped, human-readable audit entry
// recording a state-changing decision. Never mutated or removed once
// appended.
type Approval struct {
	TS   int64  `json:"ts"`
	Text string `json:"text"`
}

// Brief is the painting brief being progressively filled in during the
// conversation.
//
// Scalar fields are nil when unset; a later update replaces the prior
// value. Constraints is the one field with merge-not-replace semantics:
// updates add or overwrite keys and leave the rest untouched.
type Brief struct {
	Style         *string        `json:"style"`
	Palette       *string        `json:"palette"`
	Finish        *string        `json:"finish"`
	Timeline      *string        `json:"timeline"`
	Budget        *string        `json:"budget"`
	Vibe          []string       `json:"vibe,omitempty"`
	Rooms         []string       `json:"rooms,omitempty"`
	OpenQuestions []string       `json:"openQuestions,omitempty"`
	Constraints   map[string]any `json:"constraints,omitempty"`
}

// Session is the root aggregate for one conversation.
type Session struct {
	ID        string     `json:"id"`
	CreatedAt int64      `json:"createdAt"`
	Messages  []Message  `json:"messages"`
	Brief     Brief      `json:"brief"`
	Todos     []TodoItem `json:"todos"`
	Approvals []Approval `json:"approvals"`
}

// New returns an empty session for id created at the given wall-clock
// time in milliseconds.
func New(id string, createdAtMs int64) Session {
	return Session{
		ID:        id,
		CreatedAt: createdAtMs,
	}
}

// AppendApproval records an audit entry on the session.
func (s *Session) AppendApproval(tsMs int64, text string) {
	s.Approvals = append(s.Approvals, Approval{TS: tsMs, Text: text})
}

// AppendMessage records a transcript turn on the session.
func (s *Session) AppendMessage(role Role, text string, tsMs int64) {
	s.Messages = append(s.Messages, Message{Role: role, Text: text, TS: tsMs})
}

// Clone returns a deep copy of the session. Store implementations hand
// out clones so callers can never alias stored state.
func (s Session) Clone() Session {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	out.Todos = append([]TodoItem(nil), s.Todos...)
	out.Approvals = append([]Approval(nil), s.Approvals...)
	out.Brief = s.Brief.Clone()
	return out
}

// Clone returns a deep copy of the brief.
func (b Brief) Clone() Brief {
	out := b
	out.Style = cloneString(b.Style)
	out.Palette = cloneString(b.Palette)
	out.Finish = cloneString(b.Finish)
	out.Timeline = cloneString(b.Timeline)
	out.Budget = cloneString(b.Budget)
	out.Vibe = append([]string(nil), b.Vibe...)
	out.Rooms = append([]string(nil), b.Rooms...)
	out.OpenQuestions = append([]string(nil), b.OpenQuestions...)
	if b.Constraints != nil {
		out.Constraints = make(map[string]any, len(b.Constraints))
		for k, v := range b.Constraints {
			out.Constraints[k] = v
		}
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
