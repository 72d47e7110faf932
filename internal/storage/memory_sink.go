package storage

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemorySink keeps documents in memory. It backs --dry-run and tests.
type MemorySink struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	fail   map[string]error
	saves  int
	closed bool
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		docs: make(map[string][]byte),
		fail: make(map[string]error),
	}
}

// FailOn makes every Save of name return err.
func (m *MemorySink) FailOn(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[name] = err
}

func (m *MemorySink) Save(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if err := m.fail[name]; err != nil {
		return err
	}
	m.docs[name] = slices.Clone(body)
	return nil
}

// Get returns a copy of a stored document.
func (m *MemorySink) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.docs[name]
	return slices.Clone(body), ok
}

// Names returns the stored document names, sorted.
func (m *MemorySink) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.docs))
}

// Saves counts Save calls, including failed ones.
func (m *MemorySink) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemorySink) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
