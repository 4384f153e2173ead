package handlers

import (
	"context"
	"testing"

	"github.com/atelierhq/atelier-server/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestDispatch_Ping(t *testing.T) {
	sessions := &fakeSessions{}

	res := Dispatch(context.Background(), testDeps(sessions), "s1", []byte(`{"type":"PING","ts":12345}`))

	require.Len(t, res.Replies(), 1)
	pong, ok := res.Replies()[0].(wire.Pong)
	require.True(t, ok)
	require.Equal(t, int64(12345), pong.TS)

	// PING appends no approval.
	require.Empty(t, sessions.record.Approvals)
}

func TestDispatch_AgentNote(t *testing.T) {
	sessions := &fakeSessions{}

	res := Dispatch(context.Background(), testDeps(sessions), "s1",
		[]byte(`{"type":"AGENT_NOTE","message":"client prefers matte"}`))

	require.Empty(t, res.Replies())
	require.Len(t, sessions.record.Approvals, 1)
	require.Equal(t, "AGENT_NOTE: client prefers matte", sessions.record.Approvals[0].Text)
}

func TestDispatch_MalformedFrameMutatesNothing(t *testing.T) {
	sessions := &fakeSessions{}

	res := Dispatch(context.Background(), testDeps(sessions), "s1", []byte(`{not json`))

	require.Len(t, res.Replies(), 1)
	_, ok := res.Replies()[0].(wire.Error)
	require.True(t, ok)
	require.Nil(t, res.Close())
	require.Empty(t, sessions.record.Approvals)
	require.Nil(t, sessions.record.Brief.Constraints)
}

func TestDispatch_UnknownType(t *testing.T) {
	sessions := &fakeSessions{}

	res := Dispatch(context.Background(), testDeps(sessions), "s1", []byte(`{"type":"NOPE"}`))

	require.Len(t, res.Replies(), 1)
	errReply, ok := res.Replies()[0].(wire.Error)
	require.True(t, ok)
	require.Contains(t, errReply.Error, "unknown message type")
	require.Empty(t, sessions.record.Approvals)
}

func TestDispatch_EveryHandledMessageAppendsOneApproval(t *testing.T) {
	sessions := &fakeSessions{}
	deps := testDeps(sessions)
	ctx := context.Background()

	frames := [][]byte{
		[]byte(`{"type":"UI_RESPONSE","promptId":"style_modern","selectedOptionId":"bold"}`),
		[]byte(`{"type":"TODO_CONFIRM","ok":false}`),
		[]byte(`{"type":"AGENT_NOTE","message":"note"}`),
		[]byte(`{"type":"PING","ts":1}`),
	}
	for _, frame := range frames {
		Dispatch(ctx, deps, "s1", frame)
	}

	// Three state-changing messages, one approval each; PING none.
	require.Len(t, sessions.record.Approvals, 3)
}
