package snapshot

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store for tests and one-shot CLI runs.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	flows  map[string]storedSnapshot
	closed bool
}

// storedSnapshot holds a private copy with metadata for List().
type storedSnapshot struct {
	snap      *Snapshot
	updatedAt time.Time
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flows: make(map[string]storedSnapshot),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(s *Snapshot) error {
	if s == nil || s.FlowID == "" {
		return ErrMissingFlowID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy to avoid retaining the caller's slices
	m.flows[s.FlowID] = storedSnapshot{
		snap:      s.Clone(),
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(flowID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	stored, ok := m.flows[flowID]
	if !ok {
		return nil, ErrNotFound
	}
	return stored.snap.Clone(), nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.flows))
	for id, stored := range m.flows {
		infos = append(infos, Info{
			FlowID:    id,
			Name:      stored.snap.Name,
			NodeCount: len(stored.snap.Nodes),
			EdgeCount: len(stored.snap.Edges),
			UpdatedAt: stored.updatedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].FlowID < infos[j].FlowID
	})

	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(flowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.flows, flowID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.flows = nil
	return nil
}

// Len returns the number of stored flows.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.flows)
}
