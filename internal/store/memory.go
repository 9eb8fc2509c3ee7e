package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kumarlokesh/trie-server/internal/trie"
)

// memoryStore is an in-memory implementation of the Store interface. It
// keeps the encoded form rather than the trie itself so that later changes
// to a saved trie are not visible through Load.
type memoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(ctx context.Context) (*trie.Trie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrStateNotFound
	}
	return trie.Decode(s.data)
}

func (s *memoryStore) Save(ctx context.Context, t *trie.Trie) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode trie: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return nil
}
