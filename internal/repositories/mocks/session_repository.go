package mocks

import (
	"context"
	"sync"
)

// SessionRepository is an in-memory session store; tests usually want real
// map semantics rather than call expectations here.
type SessionRepository struct {
	mu     sync.Mutex
	values map[string]string

	GetErr   error
	SetErr   error
	ClearErr error
}

func NewSessionRepository(values map[string]string) *SessionRepository {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}

	return &SessionRepository{values: copied}
}

func (m *SessionRepository) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return "", false, m.GetErr
	}

	value, ok := m.values[key]
	return value, ok, nil
}

func (m *SessionRepository) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}

	m.values[key] = value
	return nil
}

func (m *SessionRepository) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ClearErr != nil {
		return m.ClearErr
	}

	m.values = map[string]string{}
	return nil
}

func (m *SessionRepository) Close() error {
	return nil
}

// Values returns a snapshot of what is stored.
func (m *SessionRepository) Values() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make(map[string]string, len(m.values))
	for k, v := range m.values {
		copied[k] = v
	}

	return copied
}
