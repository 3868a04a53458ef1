package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

const (
	DefaultRate  = rate.Limit(2)
	DefaultBurst = 5
)

// Limiter keeps a token bucket per user.
type Limiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	users map[int64]*rate.Limiter
}

func NewLimiter(limit rate.Limit, burst int) *Limiter {
	return &Limiter{
		limit: limit,
		burst: burst,
		users: make(map[int64]*rate.Limiter),
	}
}

// Allow reports whether userId may send another event now.
func (l *Limiter) Allow(userId int64) bool {
	l.mu.Lock()
	lim, ok := l.users[userId]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.users[userId] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// Tick forgets users whose bucket has refilled; a fresh one behaves the same.
func (l *Limiter) Tick(ctx context.Context) error {
	if dropped := l.forgetIdle(); dropped > 0 {
		slog.DebugContext(ctx, "dropped idle rate limiters", "count", dropped, "tracked", l.Len())
	}
	return nil
}

func (l *Limiter) forgetIdle() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.users)
	for id, lim := range l.users {
		if lim.Tokens() >= float64(l.burst) {
			delete(l.users, id)
		}
	}
	return before - len(l.users)
}

// Len is the number of users being tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.users)
}
