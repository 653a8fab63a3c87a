package cart

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStorage backs carts when redis is not configured, and in
// tests. Contents are copied through JSON so callers never share
// slices with the stored snapshot.
type MemoryStorage struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, token string) (*Contents, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.carts[token]
	if !ok {
		return &Contents{}, nil
	}
	var contents Contents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, err
	}
	return &contents, nil
}

func (m *MemoryStorage) Save(_ context.Context, token string, contents *Contents) error {
	data, err := json.Marshal(contents)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.carts[token] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.carts, token)
	m.mu.Unlock()
	return nil
}
