package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignedURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/convai/conversation/get_signed_url", r.URL.Path)
		require.Equal(t, "agent-42", r.URL.Query().Get("agent_id"))
		require.Equal(t, "key-123", r.Header.Get("xi-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"signed_url":"wss://provider.example/conv?token=abc"}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "key-123", "agent-42")
	require.True(t, c.Configured())

	signed, err := c.SignedURL(context.Background())
	require.NoError(t, err)
	require.Equal(t, "wss://provider.example/conv?token=abc", signed)
}

func TestSignedURL_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "bad-key", "agent-42")
	_, err := c.SignedURL(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 401")
}

func TestSignedURL_MissingField(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, "key-123", "agent-42")
	_, err := c.SignedURL(context.Background())
	require.Error(t, err)
}

func TestConfigured(t *testing.T) {
	require.False(t, NewClient("http://x", "", "agent").Configured())
	require.False(t, NewClient("http://x", "key", "").Configured())
	require.True(t, NewClient("http://x", "key", "agent").Configured())
}
