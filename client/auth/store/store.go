package store

import (
	"errors"
	"sync"
)

// ErrEmptyToken is returned when writing an empty token
var ErrEmptyToken = errors.New("empty token")

// Store is a pluggable persistence layer for a single bearer token.
// Read never fails: an unavailable medium reads as absent.
type Store interface {
	Read() (string, bool)
	Write(token string) error
	Clear() error
}

type MemoryStoreOption func(*memoryStore)

// WithToken seeds memory store with a token
func WithToken(token string) MemoryStoreOption {
	return func(m *memoryStore) {
		m.token = token
		m.has = true
	}
}

type memoryStore struct {
	mu    sync.RWMutex
	token string
	has   bool
}

func (m *memoryStore) Read() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.has
}

func (m *memoryStore) Write(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.has = true
	return nil
}

func (m *memoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.has = false
	return nil
}

func NewMemoryStore(options ...MemoryStoreOption) Store {
	ret := &memoryStore{}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
