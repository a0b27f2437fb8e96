package turnguard

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Guard. Claims expire after the configured TTL.
type Memory struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	claims map[string]time.Time // key -> expiry
}

// NewMemory creates an in-memory guard.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:    ttl,
		now:    time.Now,
		claims: make(map[string]time.Time),
	}
}

func (m *Memory) Begin(_ context.Context, conversationID string, turn int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	k := key(conversationID, turn)
	if _, claimed := m.claims[k]; claimed {
		return ErrStale
	}
	m.claims[k] = now.Add(m.ttl)
	return nil
}

func (m *Memory) Abort(_ context.Context, conversationID string, turn int) {
	m.mu.Lock()
	delete(m.claims, key(conversationID, turn))
	m.mu.Unlock()
}

// Len returns the number of live claims.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.now())
	return len(m.claims)
}

func (m *Memory) sweep(now time.Time) {
	for k, expiry := range m.claims {
		if !now.Before(expiry) {
			delete(m.claims, k)
		}
	}
}
