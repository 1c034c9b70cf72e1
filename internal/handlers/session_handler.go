package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/applied-jobs-tracker/internal/dashboard"
	"github.com/justsurfingit/applied-jobs-tracker/internal/dtos"
	"github.com/justsurfingit/applied-jobs-tracker/internal/session"
)

type SessionHandler struct {
	Sessions *session.Manager
	Boards   *dashboard.Registry
}

func NewSessionHandler(m *session.Manager, boards *dashboard.Registry) *SessionHandler {
	return &SessionHandler{Sessions: m, Boards: boards}
}

// SignIn is POST /session. The identity token comes as a bearer token.
func (h *SessionHandler) SignIn(c *gin.Context) {
	s, err := h.Sessions.SignIn(c.Request.Context(), dtos.BearerToken(c.GetHeader("Authorization")))
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := h.Boards.For(s)
	if err != nil {
		respondError(c, err)
		return
	}
	d.Welcome()

	c.JSON(http.StatusCreated, dtos.SessionResponse{
		SessionID: s.ID,
		User:      s.User,
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *SessionHandler) Current(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, dtos.SessionResponse{
		SessionID: s.ID,
		User:      s.User,
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
	})
}

// SignOut is DELETE /session. It drops the session and its dashboard.
func (h *SessionHandler) SignOut(c *gin.Context) {
	s := currentSession(c)
	if err := h.Sessions.SignOut(c.Request.Context(), s); err != nil {
		respondError(c, err)
		return
	}
	h.Boards.Drop(s)
	c.Status(http.StatusNoContent)
}
