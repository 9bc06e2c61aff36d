package tokenstore

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MemoryStore keeps tokens for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[Kind]string
}

// Compile-time check to ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: map[Kind]string{}}
}

// NewEnvStore creates a MemoryStore seeded from the given environment variables.
// The environment is read once; renewed tokens are kept in memory only.
// Returns error if a variable name is empty.
func NewEnvStore(accessKey, refreshKey string) (*MemoryStore, error) {
	if accessKey == "" || refreshKey == "" {
		return nil, fmt.Errorf("environment keys cannot be empty")
	}

	m := NewMemoryStore()
	if v := os.Getenv(accessKey); v != "" {
		m.tokens[Access] = v
	}
	if v := os.Getenv(refreshKey); v != "" {
		m.tokens[Refresh] = v
	}
	return m, nil
}

// Get returns the token held in memory.
func (m *MemoryStore) Get(ctx context.Context, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !kind.valid() {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.tokens[kind]
	if !ok || token == "" {
		return "", fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return token, nil
}

// Set overwrites the token held in memory.
func (m *MemoryStore) Set(ctx context.Context, kind Kind, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !kind.valid() {
		return fmt.Errorf("unknown token kind %q", kind)
	}
	if value == "" {
		return fmt.Errorf("refusing to store empty %s", kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[kind] = value
	return nil
}

// Clear forgets both tokens.
func (m *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.tokens)
	return nil
}
