package mocks

import (
	"context"
	"sync"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

type courseKey struct {
	patientID string
	treatment domain.TreatmentType
}

// MockCourseRepository implements ports.CourseRepository in memory.
type MockCourseRepository struct {
	mu sync.RWMutex

	courses map[courseKey]*domain.TreatmentCourse

	LoadCalls   []string
	CreateCalls []domain.TreatmentCourse
	SaveCalls   []domain.TreatmentCourse

	LoadError   error
	CreateError error
	SaveError   error
}

var _ ports.CourseRepository = (*MockCourseRepository)(nil)

func NewMockCourseRepository() *MockCourseRepository {
	return &MockCourseRepository{
		courses: make(map[courseKey]*domain.TreatmentCourse),
	}
}

func (m *MockCourseRepository) Seed(course *domain.TreatmentCourse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *course
	m.courses[courseKey{course.PatientID, course.TreatmentType}] = &cp
}

func (m *MockCourseRepository) Get(patientID string, treatment domain.TreatmentType) *domain.TreatmentCourse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.courses[courseKey{patientID, treatment}]
}

func (m *MockCourseRepository) LoadCourse(ctx context.Context, patientID string, treatment domain.TreatmentType) (*domain.TreatmentCourse, error) {
	m.mu.Lock()
	m.LoadCalls = append(m.LoadCalls, patientID)
	m.mu.Unlock()

	if m.LoadError != nil {
		return nil, m.LoadError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	course, ok := m.courses[courseKey{patientID, treatment}]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	cp := *course
	return &cp, nil
}

func (m *MockCourseRepository) CreateCourse(ctx context.Context, course *domain.TreatmentCourse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, *course)

	if m.CreateError != nil {
		return m.CreateError
	}

	cp := *course
	m.courses[courseKey{course.PatientID, course.TreatmentType}] = &cp
	return nil
}

func (m *MockCourseRepository) SaveCourse(ctx context.Context, course *domain.TreatmentCourse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, *course)

	if m.SaveError != nil {
		return m.SaveError
	}

	cp := *course
	m.courses[courseKey{course.PatientID, course.TreatmentType}] = &cp
	return nil
}

func (m *MockCourseRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.courses = make(map[courseKey]*domain.TreatmentCourse)
	m.LoadCalls = nil
	m.CreateCalls = nil
	m.SaveCalls = nil
	m.LoadError = nil
	m.CreateError = nil
	m.SaveError = nil
}
