package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions so a client stays signed in across reloads
// and process restarts.
type Store interface {
	Save(ctx context.Context, s *auth.Session) error
	Load(ctx context.Context, id string) (*auth.Session, error)
	Delete(ctx context.Context, id string) error
}

const keyPrefix = "session:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Open returns a Redis-backed store when addr answers a ping and an
// in-memory store otherwise.
func Open(ctx context.Context, addr, password string, logger *zap.Logger) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, sessions will not survive restarts",
			zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return NewMemoryStore()
	}

	logger.Info("session store connected", zap.String("addr", addr))
	return NewRedisStore(client)
}

func (r *RedisStore) Save(ctx context.Context, s *auth.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	return r.client.Set(ctx, keyPrefix+s.ID, b, ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, id string) (*auth.Session, error) {
	b, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s auth.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, keyPrefix+id).Err()
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]auth.Session), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, s *auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*auth.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
