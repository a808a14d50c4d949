package storage

import "sync"

// MemoryStore keeps the latest snapshot per target in process memory.
// Safe for concurrent use. Data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]Snapshot),
	}
}

// Put stores snap, replacing any previous snapshot for the same target.
func (m *MemoryStore) Put(snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.Target] = snap
	return nil
}

// GetLatest returns the most recent snapshot for target. The second return
// value is false when no snapshot has been stored for that target.
func (m *MemoryStore) GetLatest(target string) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[target]
	return snap, ok, nil
}
