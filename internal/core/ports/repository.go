package ports

import (
	"context"

	"github.com/amparo-center/attendance-service/internal/core/domain"
)

type AttendanceRepository interface {
	FindByID(ctx context.Context, id string) (*domain.AttendanceRecord, error)
	FindByDate(ctx context.Context, date string) ([]*domain.AttendanceRecord, error)
	Create(ctx context.Context, rec *domain.AttendanceRecord) error
	Save(ctx context.Context, rec *domain.AttendanceRecord) error
	// SaveWithEvent persists the record and an outbox event atomically.
	SaveWithEvent(ctx context.Context, rec *domain.AttendanceRecord, eventType string, payload []byte) error
	// NextScheduledDate returns the earliest scheduled date strictly after the
	// given date for which the patient has a SCHEDULED attendance of the given
	// type, or "" when none exists.
	NextScheduledDate(ctx context.Context, patientID string, treatment domain.TreatmentType, after string) (string, error)
	// RecordDaySeal persists the day summary and its outbox event atomically.
	RecordDaySeal(ctx context.Context, summary *domain.DaySummary, payload []byte) error
}

type CourseRepository interface {
	// LoadCourse returns the most recent course for the pair, or
	// domain.ErrCourseNotFound when the patient has never had one.
	LoadCourse(ctx context.Context, patientID string, treatment domain.TreatmentType) (*domain.TreatmentCourse, error)
	CreateCourse(ctx context.Context, course *domain.TreatmentCourse) error
	SaveCourse(ctx context.Context, course *domain.TreatmentCourse) error
}
