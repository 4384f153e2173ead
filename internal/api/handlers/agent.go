package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier-server/internal/agent"
	"github.com/atelierhq/atelier-server/internal/logger"
	"github.com/gin-gonic/gin"
)

// AgentHandler brokers the voice-agent signed-URL exchange.
type AgentHandler struct {
	client *agent.Client
}

// NewAgentHandler creates the agent pass-through surface.
func NewAgentHandler(client *agent.Client) *AgentHandler {
	return &AgentHandler{client: client}
}

// SignedURL handles GET /agent/signed-url.
func (h *AgentHandler) SignedURL(c *gin.Context) {
	if !h.client.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice agent not configured"})
		return
	}

	signedURL, err := h.client.SignedURL(c.Request.Context())
	if err != nil {
		logger.Errorf("[agent] signed-url exchange failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get signed url"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signedUrl": signedURL})
}
