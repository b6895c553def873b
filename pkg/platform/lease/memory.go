package lease

import (
	"context"
	"sync"
	"time"
)

type heldLease struct {
	token string
	until time.Time
}

// Memory is a process-local Locker for tests and single-instance deployments.
type Memory struct {
	mu     sync.Mutex
	leases map[string]heldLease
}

func NewMemory() *Memory {
	return &Memory{leases: make(map[string]heldLease)}
}

func (m *Memory) TryLock(_ context.Context, l Lock) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.leases[l.Name]; ok && l.LockedAt.Before(cur.until) {
		return false, nil
	}
	m.leases[l.Name] = heldLease{token: l.Token, until: l.Until()}
	return true, nil
}

func (m *Memory) Unlock(_ context.Context, l Lock, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.leases[l.Name]
	if !ok || cur.token != l.Token {
		return nil
	}
	if !now.Before(l.ReleaseAt()) {
		delete(m.leases, l.Name)
		return nil
	}
	cur.until = l.ReleaseAt()
	m.leases[l.Name] = cur
	return nil
}
