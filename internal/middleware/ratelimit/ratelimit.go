// Package ratelimit throttles write traffic per client IP using a fixed
// one-minute window.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// Limiter tracks request counts per client IP and answers whether the next
// request fits inside the configured per-minute budget.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*window
	denied   atomic.Int64
	stop     chan struct{}
	stopOnce sync.Once

	perMinute     int
	sweepInterval time.Duration
}

// window is one client's count inside its current minute.
type window struct {
	startedAt time.Time
	count     int
}

// Config holds the limiter's tunables.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig matches the budget the HTTP layer applies to mutating routes.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a limiter and starts its background sweep. Callers must
// Stop it on shutdown.
func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Limiter{
		clients:       make(map[string]*window),
		stop:          make(chan struct{}),
		perMinute:     cfg.RequestsPerMinute,
		sweepInterval: cfg.CleanupInterval,
	}
	go l.sweepLoop()
	return l
}

// Allow reports whether a request from clientIP fits the per-minute budget.
// The window is fixed: it opens on the first request and resets a minute
// later, not on every request.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.clients[clientIP]
	if !ok || now.Sub(w.startedAt) > time.Minute {
		l.clients[clientIP] = &window{startedAt: now, count: 1}
		return true
	}

	w.count++
	if w.count > l.perMinute {
		l.denied.Add(1)
		return false
	}
	return true
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.dropIdleClients()
		case <-l.stop:
			return
		}
	}
}

// dropIdleClients forgets clients whose window opened more than ten minutes
// ago. Their next request starts a fresh window anyway.
func (l *Limiter) dropIdleClients() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, w := range l.clients {
		if w.startedAt.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// ActiveClients returns how many client IPs are currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop halts the sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Metrics is a point-in-time snapshot for the metrics endpoint.
type Metrics struct {
	TotalHits   int64
	ClientCount int64
}

// GetMetrics reports how many requests were denied so far and how many
// clients are tracked.
func (l *Limiter) GetMetrics() Metrics {
	l.mu.Lock()
	clients := int64(len(l.clients))
	l.mu.Unlock()

	return Metrics{
		TotalHits:   l.denied.Load(),
		ClientCount: clients,
	}
}
