package kv

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps values in process memory. Suitable for tests and
// single-process development runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = &MemoryStore{}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("memory kv: key is empty")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return errors.New("memory kv: key is empty")
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
