package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager(t *testing.T) (*Manager, *auth.JWTProvider, *MemoryStore) {
	t.Helper()
	p := auth.NewJWTProvider("secret")
	store := NewMemoryStore()
	return NewManager(p, store, time.Hour, zap.NewNop()), p, store
}

func TestManager_Lifecycle(t *testing.T) {
	m, p, _ := newManager(t)
	ctx := context.Background()

	tok, err := p.Issue(auth.User{UID: "uid-1", DisplayName: "Ada"}, time.Minute)
	require.NoError(t, err)

	s, err := m.SignIn(ctx, tok)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "uid-1", s.OwnerID())

	got, err := m.Resolve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.User, got.User)

	require.NoError(t, m.SignOut(ctx, s))
	_, err = m.Resolve(ctx, s.ID)
	assert.True(t, errors.Is(err, auth.ErrUnauthenticated))
}

func TestManager_BadToken(t *testing.T) {
	m, _, _ := newManager(t)
	_, err := m.SignIn(context.Background(), "nope")
	assert.True(t, errors.Is(err, auth.ErrTokenInvalid))
}

func TestManager_ResolveUnknownOrExpired(t *testing.T) {
	m, p, store := newManager(t)
	ctx := context.Background()

	_, err := m.Resolve(ctx, "")
	assert.True(t, errors.Is(err, auth.ErrUnauthenticated))
	_, err = m.Resolve(ctx, "missing")
	assert.True(t, errors.Is(err, auth.ErrUnauthenticated))

	tok, _ := p.Issue(auth.User{UID: "u"}, time.Minute)
	s, err := m.SignIn(ctx, tok)
	require.NoError(t, err)

	later := time.Now().Add(2 * time.Hour)
	m.now = func() time.Time { return later }
	store.now = func() time.Time { return later }
	_, err = m.Resolve(ctx, s.ID)
	assert.True(t, errors.Is(err, auth.ErrUnauthenticated))
}
