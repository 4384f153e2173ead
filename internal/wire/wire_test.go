package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInbound(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    any
		wantErr string
	}{
		{
			name:  "ui response",
			input: `{"type":"UI_RESPONSE","promptId":"style_modern","selectedOptionId":"bold"}`,
			want:  &UIResponse{Type: TypeUIResponse, PromptID: "style_modern", SelectedOptionID: "bold"},
		},
		{
			name:  "todo confirm accepted",
			input: `{"type":"TODO_CONFIRM","ok":true}`,
			want:  &TodoConfirm{Type: TypeTodoConfirm, OK: true},
		},
		{
			name:  "todo confirm rejected",
			input: `{"type":"TODO_CONFIRM","ok":false}`,
			want:  &TodoConfirm{Type: TypeTodoConfirm, OK: false},
		},
		{
			name:  "agent note",
			input: `{"type":"AGENT_NOTE","message":"client prefers matte"}`,
			want:  &AgentNote{Type: TypeAgentNote, Message: "client prefers matte"},
		},
		{
			name:  "ping",
			input: `{"type":"PING","ts":12345}`,
			want:  &Ping{Type: TypePing, TS: 12345},
		},
		{
			name:    "malformed json",
			input:   `{nope`,
			wantErr: "invalid message",
		},
		{
			name:    "missing type",
			input:   `{"promptId":"x"}`,
			wantErr: "missing message type",
		},
		{
			name:    "unknown type",
			input:   `{"type":"SHRUG"}`,
			wantErr: "unknown message type: SHRUG",
		},
		{
			name:    "ui response without promptId",
			input:   `{"type":"UI_RESPONSE","selectedOptionId":"bold"}`,
			wantErr: "missing promptId",
		},
		{
			name:    "agent note without message",
			input:   `{"type":"AGENT_NOTE","message":""}`,
			wantErr: "missing message",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseInbound([]byte(tc.input))
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFallbackTodoItems(t *testing.T) {
	require.Equal(t, []string{
		"Review style selections",
		"Confirm color palette",
		"Schedule consultation call",
		"Review project timeline",
		"Prepare room photos",
	}, FallbackTodoItems)

	preview := NewTodoPreview(nil)
	require.Equal(t, TypeTodoPreview, preview.Type)
	require.Len(t, preview.Items, 5)
}

func TestPongEchoesTimestamp(t *testing.T) {
	pong := NewPong(12345)

	data, err := json.Marshal(pong)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"PONG","ts":12345}`, string(data))
}

func TestCallFinishedWire(t *testing.T) {
	data, err := json.Marshal(NewCallFinished("abc123"))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"CALL_FINISHED","sessionId":"abc123"}`, string(data))
}
