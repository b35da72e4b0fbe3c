package ratelimit

import (
	"sync"
	"time"
)

// Limiter - скользящее окно на чат. Поиск дорогой (браузер + LLM),
// поэтому лимит по умолчанию жёстче, чем обычно у ботов.
type Limiter struct {
	mu       sync.Mutex
	requests map[int64][]time.Time
	limit    int
	window   time.Duration
}

type Config struct {
	SearchesPerWindow int
	Window            time.Duration
}

func New(cfg Config) *Limiter {
	if cfg.SearchesPerWindow <= 0 {
		cfg.SearchesPerWindow = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	l := &Limiter{
		requests: make(map[int64][]time.Time),
		limit:    cfg.SearchesPerWindow,
		window:   cfg.Window,
	}
	go l.cleanup()
	return l
}

func (l *Limiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	old := l.requests[chatID]
	fresh := old[:0]
	for _, t := range old {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= l.limit {
		l.requests[chatID] = fresh
		return false
	}

	l.requests[chatID] = append(fresh, now)
	return true
}

// ResetTime - когда освободится слот (приблизительно).
func (l *Limiter) ResetTime(chatID int64) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.requests[chatID]
	if len(ts) == 0 {
		return time.Now()
	}

	oldest := ts[0]
	for _, t := range ts[1:] {
		if t.Before(oldest) {
			oldest = t
		}
	}
	return oldest.Add(l.window)
}

// cleanup - фоновая очистка пустых чатов
// TODO: остановка по контексту, как в cache/memory
func (l *Limiter) cleanup() {
	tick := time.NewTicker(5 * time.Minute)
	for range tick.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.window)

		for id, ts := range l.requests {
			var fresh []time.Time
			for _, t := range ts {
				if t.After(cutoff) {
					fresh = append(fresh, t)
				}
			}
			if len(fresh) == 0 {
				delete(l.requests, id)
			} else {
				l.requests[id] = fresh
			}
		}
		l.mu.Unlock()
	}
}
