package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/metrics"
	"go.uber.org/zap"
)

var ErrSessionEnded = errors.New("session has ended")

// Registry keeps one Dashboard per live session.
type Registry struct {
	deps Deps

	mu     sync.Mutex
	boards map[string]*Dashboard
	// ended holds signed-out session ids until the session would have
	// expired anyway, so a request racing the sign-out cannot revive it.
	ended map[string]time.Time
	now   func() time.Time
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:   deps,
		boards: make(map[string]*Dashboard),
		ended:  make(map[string]time.Time),
		now:    time.Now,
	}
}

// For returns the dashboard of s, creating it on first use. A session
// restored from the session store after a restart starts out idle.
func (r *Registry) For(s *auth.Session) (*Dashboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, gone := r.ended[s.ID]; gone {
		return nil, ErrSessionEnded
	}
	if d, ok := r.boards[s.ID]; ok {
		return d, nil
	}
	d := New(s, r.deps)
	r.boards[s.ID] = d
	metrics.ActiveSessions.Set(float64(len(r.boards)))
	return d, nil
}

// Drop tears down the dashboard of a signed-out session and refuses to
// build a new one for it. Refreshes still running finish without
// touching anything.
func (r *Registry) Drop(s *auth.Session) {
	r.mu.Lock()
	r.ended[s.ID] = s.ExpiresAt
	r.mu.Unlock()
	r.remove(s.ID)
}

func (r *Registry) remove(sessionID string) {
	r.mu.Lock()
	d, ok := r.boards[sessionID]
	delete(r.boards, sessionID)
	metrics.ActiveSessions.Set(float64(len(r.boards)))
	r.mu.Unlock()
	if ok {
		d.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

// Sweep drops dashboards whose session has expired and returns how many went.
func (r *Registry) Sweep() int {
	now := r.now()
	var expired []string
	r.mu.Lock()
	for id, d := range r.boards {
		if d.Session.Expired(now) {
			expired = append(expired, id)
		}
	}
	// past expiry the session store rejects the id on its own
	for id, exp := range r.ended {
		if !exp.IsZero() && now.After(exp) {
			delete(r.ended, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		r.remove(id)
	}
	return len(expired)
}

// StartJanitor sweeps expired dashboards every interval until ctx ends.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					r.deps.Logger.Info("dropped expired dashboards", zap.Int("count", n))
				}
			}
		}
	}()
}
