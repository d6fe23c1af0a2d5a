package secrets

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryManager keeps secrets in process memory. It is used in local
// development when no external secrets service is configured.
type MemoryManager struct {
	mu      sync.Mutex
	secrets map[string]*Secret
}

// NewMemoryManager creates an in-memory secrets manager
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{secrets: make(map[string]*Secret)}
}

func (m *MemoryManager) CreateSecret(_ context.Context, secret *Secret) (string, error) {
	id := uuid.NewString()

	m.mu.Lock()
	m.secrets[id] = secret
	m.mu.Unlock()

	return id, nil
}

func (m *MemoryManager) GeneratePassword(length int) (string, error) {
	return GeneratePassword(length)
}
