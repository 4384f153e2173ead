package handlers

// CloseDirective instructs the connection to terminate after the
// replies have been sent.
type CloseDirective struct {
	code   int
	reason string
}

// Code returns the WebSocket close code to send.
func (c CloseDirective) Code() int { return c.code }

// Reason returns the close reason text.
func (c CloseDirective) Reason() string { return c.reason }

// EventResult is the output of a handler invocation: zero or more
// outbound frames plus an optional connection-termination directive.
type EventResult struct {
	replies []any
	close   *CloseDirective
}

// NewEventResult constructs a handler result with the given replies.
func NewEventResult(replies ...any) EventResult {
	return EventResult{replies: replies}
}

// NewEventResultWithClose constructs a result whose replies are
// followed by a connection close.
func NewEventResultWithClose(code int, reason string, replies ...any) EventResult {
	return EventResult{
		replies: replies,
		close:   &CloseDirective{code: code, reason: reason},
	}
}

// Replies returns the outbound frames to send, in order.
func (r EventResult) Replies() []any { return r.replies }

// Close returns the termination directive, or nil to keep the
// connection open.
func (r EventResult) Close() *CloseDirective { return r.close }
