// Package cache provides the in-process caches backing list-heavy read
// paths, plus a manager that sweeps expired entries on an interval.
package cache

import (
	"log/slog"
	"time"
)

// Cache is the read/write surface the HTTP layer programs against.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Size() int
}

// Cleaner is any cache the Manager can sweep.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the background sweep for every registered cache. Register
// before StartCleanup; registration is not synchronized against the sweep
// goroutine.
type Manager struct {
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the sweep set.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup launches the sweep goroutine.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			swept := 0
			for _, c := range m.caches {
				swept += c.CleanExpired()
			}
			if swept > 0 {
				slog.Debug("Swept expired cache entries", "count", swept)
			}
		case <-m.stop:
			return
		}
	}
}

// Stop halts the sweep goroutine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.done
}
