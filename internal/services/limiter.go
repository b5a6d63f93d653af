package services

import (
	"sync"
	"time"
)

// RateLimiter — скользящее окно: не больше max событий на ключ за window.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Allow проверяет лимит и, если он не превышен, учитывает событие.
func (l *RateLimiter) Allow(key string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.hits[key], cutoff)
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// Cleanup выбрасывает ключи без событий в окне. Вызывается по расписанию.
func (l *RateLimiter) Cleanup() int {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, hits := range l.hits {
		if kept := prune(hits, cutoff); len(kept) == 0 {
			delete(l.hits, k)
			removed++
		} else {
			l.hits[k] = kept
		}
	}
	return removed
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
