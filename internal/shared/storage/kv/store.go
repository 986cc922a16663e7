package kv

import "sync"

// Store defines the persistent key-value capability used for client-side
// state: the dashboard cache envelope and the stored credential. Values are
// replaced wholesale; there are no partial writes.
type Store interface {
	// Get returns the stored value for key. A missing or unreadable value
	// reports ok=false, never an error.
	Get(key string) (value []byte, ok bool)
	Set(key string, value []byte) error
	Remove(key string) error
}

// MemoryStore is an in-memory Store used by tests and ephemeral sessions.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
