// Package memstore es el uploader in-memory para dev y tests,
// análogo a los repos in-memory del storage.
package memstore

import (
	"context"
	"sync"
)

type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
	}
}

func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = cp

	return "memory://" + key, nil
}

// Get existe para poder asertar contenidos en tests.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	return data, ok
}
