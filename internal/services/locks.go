package services

import "sync"

// CollectorLocks serializes read-modify-write cycles per collector. Every
// writer that touches a collector's reward state (transaction accrual,
// redemption, expiry sweep) holds the collector's lock for the whole cycle,
// so the accrual delta always sees the immediately-preceding committed daily
// total. Different collectors proceed fully in parallel.
type CollectorLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCollectorLocks creates an empty lock table.
func NewCollectorLocks() *CollectorLocks {
	return &CollectorLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for one collector and returns the release func.
// Entries are never evicted; the table is bounded by the collector count.
func (l *CollectorLocks) Lock(collectorID string) func() {
	l.mu.Lock()
	m, ok := l.locks[collectorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[collectorID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
