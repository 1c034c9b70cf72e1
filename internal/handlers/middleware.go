package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/session"
	"go.uber.org/zap"
)

const (
	SessionHeader   = "X-Session-ID"
	requestIDHeader = "X-Request-ID"
	sessionKey      = "session"
)

// AccessLog logs one line per request.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(requestIDHeader, rid)

		c.Next()

		logger.Info("http access",
			zap.String("rid", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// RequireSession rejects requests without a live session and stores the
// session on the context for handlers.
func RequireSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.Resolve(c.Request.Context(), c.GetHeader(SessionHeader))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(sessionKey, s)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), s))
		c.Next()
	}
}

func currentSession(c *gin.Context) *auth.Session {
	v, _ := c.Get(sessionKey)
	s, _ := v.(*auth.Session)
	return s
}
