package store

import (
	"io/fs"
	"sync"
)

// Memory keeps the serialized database in memory.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	saved bool
	saves int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

// Load returns a copy of the last saved bytes, or fs.ErrNotExist.
func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), m.data...), nil
}

// Save keeps a copy of data.
func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.saved = true
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
