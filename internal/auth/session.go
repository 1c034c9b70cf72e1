package auth

import (
	"context"
	"time"
)

// Session is the signed-in state of one client. It exists from a
// successful sign-in until sign-out or expiry.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OwnerID is the key every application query and write is scoped by.
func (s *Session) OwnerID() string {
	if s == nil {
		return ""
	}
	return s.User.UID
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
