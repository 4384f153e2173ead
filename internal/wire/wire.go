// Package wire defines the JSON messages exchanged over the session
// WebSocket. Every frame is a UTF-8 JSON object with a mandatory
// "type" discriminator.
package wire

import (
	"encoding/json"
	"fmt"
)

// Inbound message types.
const (
	TypeUIResponse  = "UI_RESPONSE"
	TypeTodoConfirm = "TODO_CONFIRM"
	TypeAgentNote   = "AGENT_NOTE"
	TypePing        = "PING"
)

// Outbound message types.
const (
	TypeUIPrompt     = "UI_PROMPT"
	TypeTodoPreview  = "TODO_PREVIEW"
	TypeCallFinished = "CALL_FINISHED"
	TypePong         = "PONG"
	TypeError        = "ERROR"
)

// UIResponse reports a choice the client made for a rendered prompt.
type UIResponse struct {
	Type             string `json:"type"`
	PromptID         string `json:"promptId"`
	SelectedOptionID string `json:"selectedOptionId"`
}

// TodoConfirm accepts or rejects the offered to-do list.
type TodoConfirm struct {
	Type string `json:"type"`
	OK   bool   `json:"ok"`
}

// AgentNote carries a free-text remark from the agent for the audit
// log.
type AgentNote struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Ping is a liveness/latency probe; the server echoes the timestamp.
type Ping struct {
	Type string `json:"type"`
	TS   int64  `json:"ts"`
}

// UIPromptOption is one selectable option of a UI prompt.
type UIPromptOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Image string `json:"image"`
}

// UIPrompt asks the client UI to render a structured choice.
type UIPrompt struct {
	Type     string           `json:"type"`
	PromptID string           `json:"promptId"`
	Title    string           `json:"title"`
	Options  []UIPromptOption `json:"options"`
}

// TodoPreview offers a to-do list for confirmation.
type TodoPreview struct {
	Type  string   `json:"type"`
	Items []string `json:"items"`
}

// CallFinished tells the client the session has concluded.
type CallFinished struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// Pong echoes a Ping timestamp unchanged.
type Pong struct {
	Type string `json:"type"`
	TS   int64  `json:"ts"`
}

// Error reports a per-message failure. The connection stays open.
type Error struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// FallbackTodoItems is the fixed review list re-offered when the
// client rejects the to-do preview. The exact wording is part of the
// interface contract.
var FallbackTodoItems = []string{
	"Review style selections",
	"Confirm color palette",
	"Schedule consultation call",
	"Review project timeline",
	"Prepare room photos",
}

// NewTodoPreview builds a TODO_PREVIEW frame. With no items it carries
// the fixed fallback list.
func NewTodoPreview(items []string) TodoPreview {
	if len(items) == 0 {
		items = FallbackTodoItems
	}
	return TodoPreview{Type: TypeTodoPreview, Items: items}
}

// NewCallFinished builds a CALL_FINISHED frame for a session.
func NewCallFinished(sessionID string) CallFinished {
	return CallFinished{Type: TypeCallFinished, SessionID: sessionID}
}

// NewPong builds a PONG frame echoing ts.
func NewPong(ts int64) Pong {
	return Pong{Type: TypePong, TS: ts}
}

// NewError builds an ERROR frame with a human-readable description.
func NewError(msg string) Error {
	return Error{Type: TypeError, Error: msg}
}

// NewUIPrompt builds a UI_PROMPT frame.
func NewUIPrompt(promptID, title string, options []UIPromptOption) UIPrompt {
	return UIPrompt{Type: TypeUIPrompt, PromptID: promptID, Title: title, Options: options}
}

// ParseInbound decodes one inbound frame into its typed variant:
// *UIResponse, *TodoConfirm, *AgentNote, or *Ping. Unknown types and
// malformed payloads are errors; the caller replies with an ERROR
// frame and keeps the connection open.
func ParseInbound(data []byte) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	switch head.Type {
	case TypeUIResponse:
		var msg UIResponse
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("invalid UI_RESPONSE: %w", err)
		}
		if msg.PromptID == "" {
			return nil, fmt.Errorf("UI_RESPONSE missing promptId")
		}
		return &msg, nil
	case TypeTodoConfirm:
		var msg TodoConfirm
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("invalid TODO_CONFIRM: %w", err)
		}
		return &msg, nil
	case TypeAgentNote:
		var msg AgentNote
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("invalid AGENT_NOTE: %w", err)
		}
		if msg.Message == "" {
			return nil, fmt.Errorf("AGENT_NOTE missing message")
		}
		return &msg, nil
	case TypePing:
		var msg Ping
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("invalid PING: %w", err)
		}
		return &msg, nil
	case "":
		return nil, fmt.Errorf("missing message type")
	default:
		return nil, fmt.Errorf("unknown message type: %s", head.Type)
	}
}
