package usage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store with the same atomicity contract as the
// Postgres implementation. Used by tests and local development without a
// database.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

func key(identity, day string) string {
	return identity + "|" + day
}

func (s *MemoryStore) Count(_ context.Context, identity, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key(identity, day)], nil
}

func (s *MemoryStore) IncrementBelow(_ context.Context, identity, day string, ceiling int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(identity, day)
	if s.counts[k] >= ceiling {
		return 0, false, nil
	}
	s.counts[k]++
	return s.counts[k], true, nil
}

func (s *MemoryStore) Decrement(_ context.Context, identity, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(identity, day)
	if s.counts[k] > 0 {
		s.counts[k]--
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
