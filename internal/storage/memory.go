package storage

import (
	"context"
	"sync"
)

// Memory keeps the snapshot in process memory.
type Memory struct {
	mu   sync.Mutex
	data []byte
	set  bool

	// SaveErr, when set, is returned by Save (tests).
	SaveErr error
	// LoadErr, when set, is returned by Load (tests).
	LoadErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a Memory store holding data.
func NewMemoryWith(data []byte) *Memory {
	return &Memory{data: append([]byte(nil), data...), set: true}
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if !m.set {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.set = true
	m.Saves++
	return nil
}

// Bytes returns the last saved blob.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
