package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter gates how often a chat may start a completion.
type Limiter interface {
	TryAcquire(ctx context.Context, chatID int64, window time.Duration) bool
}

// MemoryLimiter remembers the last accepted request per chat. Entries are
// overwritten on acceptance and never removed.
type MemoryLimiter struct {
	now func() time.Time

	mu       sync.Mutex
	lastSeen map[int64]time.Time
}

func NewMemoryLimiter(now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{now: now, lastSeen: make(map[int64]time.Time)}
}

func (l *MemoryLimiter) TryAcquire(_ context.Context, chatID int64, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastSeen[chatID]; ok && now.Sub(last) < window {
		return false
	}
	l.lastSeen[chatID] = now
	return true
}
