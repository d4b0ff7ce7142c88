// Package mocks provides mock implementations of port interfaces for testing.
// The core services depend on the port interfaces only, so tests inject these
// in-memory doubles instead of Postgres, Redis and RabbitMQ.
package mocks

import (
	"context"
	"sync"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// MockAttendanceRepository implements ports.AttendanceRepository in memory.
type MockAttendanceRepository struct {
	mu sync.RWMutex

	records map[string]*domain.AttendanceRecord

	// Call tracking for verification
	FindByIDCalls      []string
	FindByDateCalls    []string
	CreateCalls        []domain.AttendanceRecord
	SaveCalls          []domain.AttendanceRecord
	SaveWithEventCalls []string
	DaySealCalls       []domain.DaySummary

	// Error injection for testing error scenarios
	FindByIDError      error
	FindByDateError    error
	CreateError        error
	SaveError          error
	SaveWithEventError error
	NextScheduledError error
	RecordDaySealError error
}

var _ ports.AttendanceRepository = (*MockAttendanceRepository)(nil)

func NewMockAttendanceRepository() *MockAttendanceRepository {
	return &MockAttendanceRepository{
		records: make(map[string]*domain.AttendanceRecord),
	}
}

// Seed adds a record for test setup. The stored value is a copy.
func (m *MockAttendanceRepository) Seed(rec *domain.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[rec.ID] = &cp
}

// Get returns the stored record for assertions, or nil.
func (m *MockAttendanceRepository) Get(id string) *domain.AttendanceRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[id]
}

func (m *MockAttendanceRepository) FindByID(ctx context.Context, id string) (*domain.AttendanceRecord, error) {
	m.mu.Lock()
	m.FindByIDCalls = append(m.FindByIDCalls, id)
	m.mu.Unlock()

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrAttendanceNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MockAttendanceRepository) FindByDate(ctx context.Context, date string) ([]*domain.AttendanceRecord, error) {
	m.mu.Lock()
	m.FindByDateCalls = append(m.FindByDateCalls, date)
	m.mu.Unlock()

	if m.FindByDateError != nil {
		return nil, m.FindByDateError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var recs []*domain.AttendanceRecord
	for _, rec := range m.records {
		if rec.ScheduledDate == date {
			cp := *rec
			recs = append(recs, &cp)
		}
	}
	return recs, nil
}

func (m *MockAttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, *rec)

	if m.CreateError != nil {
		return m.CreateError
	}

	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *MockAttendanceRepository) Save(ctx context.Context, rec *domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, *rec)

	if m.SaveError != nil {
		return m.SaveError
	}

	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *MockAttendanceRepository) SaveWithEvent(ctx context.Context, rec *domain.AttendanceRecord, eventType string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveWithEventCalls = append(m.SaveWithEventCalls, eventType)

	if m.SaveWithEventError != nil {
		return m.SaveWithEventError
	}

	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *MockAttendanceRepository) NextScheduledDate(ctx context.Context, patientID string, treatment domain.TreatmentType, after string) (string, error) {
	if m.NextScheduledError != nil {
		return "", m.NextScheduledError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	next := ""
	for _, rec := range m.records {
		if rec.PatientID != patientID || rec.TreatmentType != treatment {
			continue
		}
		if rec.Status != domain.StatusScheduled || rec.ScheduledDate <= after {
			continue
		}
		if next == "" || rec.ScheduledDate < next {
			next = rec.ScheduledDate
		}
	}
	return next, nil
}

func (m *MockAttendanceRepository) RecordDaySeal(ctx context.Context, summary *domain.DaySummary, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DaySealCalls = append(m.DaySealCalls, *summary)

	if m.RecordDaySealError != nil {
		return m.RecordDaySealError
	}
	return nil
}

// Reset clears all stored data and call tracking.
func (m *MockAttendanceRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]*domain.AttendanceRecord)
	m.FindByIDCalls = nil
	m.FindByDateCalls = nil
	m.CreateCalls = nil
	m.SaveCalls = nil
	m.SaveWithEventCalls = nil
	m.DaySealCalls = nil
	m.FindByIDError = nil
	m.FindByDateError = nil
	m.CreateError = nil
	m.SaveError = nil
	m.SaveWithEventError = nil
	m.NextScheduledError = nil
	m.RecordDaySealError = nil
}
