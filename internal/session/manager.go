package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"go.uber.org/zap"
)

// Manager owns the session lifecycle: SignIn creates one, Resolve looks
// it up per request, SignOut tears it down.
type Manager struct {
	Provider auth.Provider
	Store    Store
	TTL      time.Duration
	Logger   *zap.Logger

	now func() time.Time
}

func NewManager(p auth.Provider, store Store, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{Provider: p, Store: store, TTL: ttl, Logger: logger, now: time.Now}
}

func (m *Manager) SignIn(ctx context.Context, token string) (*auth.Session, error) {
	u, err := m.Provider.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := &auth.Session{
		ID:        uuid.NewString(),
		User:      u,
		CreatedAt: now,
		ExpiresAt: now.Add(m.TTL),
	}
	if err := m.Store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.Logger.Info("signed in", zap.String("uid", u.UID), zap.String("session", s.ID))
	return s, nil
}

// Resolve returns the live session for id or auth.ErrUnauthenticated.
func (m *Manager) Resolve(ctx context.Context, id string) (*auth.Session, error) {
	if id == "" {
		return nil, auth.ErrUnauthenticated
	}
	s, err := m.Store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrUnauthenticated
		}
		return nil, err
	}
	if s.Expired(m.now()) {
		_ = m.Store.Delete(ctx, id)
		return nil, auth.ErrUnauthenticated
	}
	return s, nil
}

func (m *Manager) SignOut(ctx context.Context, s *auth.Session) error {
	if err := m.Store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.Logger.Info("signed out", zap.String("uid", s.OwnerID()), zap.String("session", s.ID))
	return nil
}
