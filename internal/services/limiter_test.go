package services

import (
	"testing"
	"time"
)

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("первые два события должны проходить")
	}
	if l.Allow("a") {
		t.Fatal("третье событие в окне должно отклоняться")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("a") {
		t.Fatal("после окна лимит должен восстановиться")
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Now()
	l := NewRateLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(30 * time.Second)
	l.Allow("fresh")
	now = now.Add(45 * time.Second)

	if n := l.Cleanup(); n != 1 {
		t.Fatalf("удалено %d ключей, ожидали 1", n)
	}
	if l.Allow("fresh") {
		t.Fatal("свежий ключ должен остаться в окне")
	}
}
