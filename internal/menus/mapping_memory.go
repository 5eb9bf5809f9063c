package menus

import (
	"context"
	"strings"
	"sync"
)

type memoryMappingStore struct {
	mu     sync.RWMutex
	byPost map[string]Mapping
}

// NewMemoryMappingStore constructs an in-memory mapping store.
func NewMemoryMappingStore() MappingStore {
	return &memoryMappingStore{
		byPost: make(map[string]Mapping),
	}
}

// Get returns a copy of the post's mapping; unknown posts yield an empty mapping.
func (m *memoryMappingStore) Get(_ context.Context, postID string) (Mapping, error) {
	key := strings.TrimSpace(postID)
	if key == "" {
		return nil, ErrPostIDRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.byPost[key].Clone(), nil
}

func (m *memoryMappingStore) Set(_ context.Context, postID string, mapping Mapping) error {
	key := strings.TrimSpace(postID)
	if key == "" {
		return ErrPostIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.byPost[key] = mapping.Clone()
	return nil
}
