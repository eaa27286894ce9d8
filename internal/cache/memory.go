package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is the in-process Store used when no Redis address is
// configured. Entries expire lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory cache with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached payload for key, if present and fresh.
func (s *MemoryStore) Get(_ context.Context, key Key) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key.String()]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key.String())
		s.mu.Unlock()
		return nil, false
	}
	return entry.payload, true
}

// Set stores a payload under key.
func (s *MemoryStore) Set(_ context.Context, key Key, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.String()] = memoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// InvalidateToken drops every entry belonging to a token fingerprint.
func (s *MemoryStore) InvalidateToken(_ context.Context, fingerprint string) error {
	prefix := keyPrefix + ":" + fingerprint + ":"
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	return nil
}
