package handlers

import (
	"context"
	"net/http"

	"github.com/atelierhq/atelier-server/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionLister enumerates stored sessions for the dashboard.
type SessionLister interface {
	List(ctx context.Context) ([]session.Session, error)
}

// DashboardHandler serves the business dashboard's read views.
type DashboardHandler struct {
	sessions SessionLister
}

// NewDashboardHandler creates the dashboard surface.
func NewDashboardHandler(sessions SessionLister) *DashboardHandler {
	return &DashboardHandler{sessions: sessions}
}

// dashboardSession is the review-screen projection of a session: the
// brief, the to-do list, and the human-readable approval transcript.
type dashboardSession struct {
	ID        string             `json:"id"`
	CreatedAt int64              `json:"createdAt"`
	Brief     session.Brief      `json:"brief"`
	Todos     []session.TodoItem `json:"todos"`
	Approvals []session.Approval `json:"approvals"`
	Turns     int                `json:"turns"`
}

// ListSessions handles GET /dashboard/sessions.
func (h *DashboardHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}

	out := make([]dashboardSession, len(sessions))
	for i, s := range sessions {
		out[i] = dashboardSession{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			Brief:     s.Brief,
			Todos:     s.Todos,
			Approvals: s.Approvals,
			Turns:     len(s.Messages),
		}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}
