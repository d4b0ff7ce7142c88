package mocks

import (
	"context"
	"sync"

	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// MockSealRegistry implements ports.SealRegistry with a plain map, keeping the
// SetNX semantics: the first Seal for a date wins, later ones return false.
type MockSealRegistry struct {
	mu     sync.Mutex
	sealed map[string]bool

	SealCalls    []string
	ReleaseCalls []string

	SealError     error
	IsSealedError error
	ReleaseError  error
}

var _ ports.SealRegistry = (*MockSealRegistry)(nil)

func NewMockSealRegistry() *MockSealRegistry {
	return &MockSealRegistry{
		sealed: make(map[string]bool),
	}
}

// MarkSealed pre-seals a date for test setup.
func (m *MockSealRegistry) MarkSealed(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sealed[date] = true
}

func (m *MockSealRegistry) Seal(ctx context.Context, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SealCalls = append(m.SealCalls, date)

	if m.SealError != nil {
		return false, m.SealError
	}
	if m.sealed[date] {
		return false, nil
	}
	m.sealed[date] = true
	return true, nil
}

func (m *MockSealRegistry) IsSealed(ctx context.Context, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsSealedError != nil {
		return false, m.IsSealedError
	}
	return m.sealed[date], nil
}

func (m *MockSealRegistry) Release(ctx context.Context, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReleaseCalls = append(m.ReleaseCalls, date)

	if m.ReleaseError != nil {
		return m.ReleaseError
	}
	delete(m.sealed, date)
	return nil
}

func (m *MockSealRegistry) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sealed = make(map[string]bool)
	m.SealCalls = nil
	m.ReleaseCalls = nil
	m.SealError = nil
	m.IsSealedError = nil
	m.ReleaseError = nil
}
