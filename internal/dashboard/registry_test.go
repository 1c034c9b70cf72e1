package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/database"
	"github.com/justsurfingit/applied-jobs-tracker/internal/services"
	"github.com/justsurfingit/applied-jobs-tracker/internal/table"
	"github.com/justsurfingit/applied-jobs-tracker/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry() *Registry {
	return NewRegistry(Deps{
		Adapter:   services.NewApplicationService(database.NewMemoryStore(), zap.NewNop(), time.UTC),
		Validator: validation.New(),
		Logger:    zap.NewNop(),
	})
}

func TestRegistry_OneDashboardPerSession(t *testing.T) {
	r := newRegistry()
	s1 := &auth.Session{ID: "a", User: auth.User{UID: "u"}}
	s2 := &auth.Session{ID: "b", User: auth.User{UID: "u"}}

	d1, err := r.For(s1)
	require.NoError(t, err)
	again, err := r.For(s1)
	require.NoError(t, err)
	assert.Same(t, d1, again)

	d2, err := r.For(s2)
	require.NoError(t, err)
	assert.NotSame(t, d1, d2)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_DroppedSessionStaysDropped(t *testing.T) {
	r := newRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }
	s := &auth.Session{ID: "a", User: auth.User{UID: "u"}, ExpiresAt: now.Add(time.Hour)}

	d, err := r.For(s)
	require.NoError(t, err)

	r.Drop(s)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, table.ErrClosed, d.Table.Refresh(context.Background()))

	// a request that resolved s before the sign-out arrives late
	_, err = r.For(s)
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.Equal(t, 0, r.Len())

	r.Sweep()
	_, err = r.For(s)
	assert.ErrorIs(t, err, ErrSessionEnded)

	now = now.Add(2 * time.Hour)
	r.Sweep()
	r.mu.Lock()
	assert.Empty(t, r.ended)
	r.mu.Unlock()
}

func TestRegistry_Sweep(t *testing.T) {
	r := newRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	_, err := r.For(&auth.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)})
	require.NoError(t, err)
	_, err = r.For(&auth.Session{ID: "live", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
}
