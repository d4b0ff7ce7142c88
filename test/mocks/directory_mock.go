package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// MockPatientDirectory implements ports.PatientDirectory from a fixed name map.
type MockPatientDirectory struct {
	mu    sync.RWMutex
	names map[string]string

	LookupCalls []string
	LookupError error
}

var _ ports.PatientDirectory = (*MockPatientDirectory)(nil)

func NewMockPatientDirectory() *MockPatientDirectory {
	return &MockPatientDirectory{
		names: make(map[string]string),
	}
}

func (m *MockPatientDirectory) SetName(patientID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[patientID] = name
}

func (m *MockPatientDirectory) DisplayName(ctx context.Context, patientID string) (string, error) {
	m.mu.Lock()
	m.LookupCalls = append(m.LookupCalls, patientID)
	m.mu.Unlock()

	if m.LookupError != nil {
		return "", m.LookupError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.names[patientID]
	if !ok {
		return "", errors.New("patient not found")
	}
	return name, nil
}

func (m *MockPatientDirectory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.names = make(map[string]string)
	m.LookupCalls = nil
	m.LookupError = nil
}
