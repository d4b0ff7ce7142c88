package services

import (
	"context"
	"errors"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
	"github.com/google/uuid"
)

// CourseTracker counts completed and remaining sessions on multi-visit
// treatment courses.
type CourseTracker struct {
	courses     ports.CourseRepository
	attendances ports.AttendanceRepository
}

var _ ports.CourseProgressTracker = (*CourseTracker)(nil)

func NewCourseTracker(courses ports.CourseRepository, attendances ports.AttendanceRepository) *CourseTracker {
	return &CourseTracker{
		courses:     courses,
		attendances: attendances,
	}
}

// StartCourse opens a new active course for the pair. A patient can hold at
// most one active course per treatment type; a finished prior course does not
// block a new one.
func (t *CourseTracker) StartCourse(
	ctx context.Context,
	patientID string,
	treatment domain.TreatmentType,
	totalSessions int,
) (*domain.TreatmentCourse, error) {
	if totalSessions <= 0 {
		return nil, domain.ErrInvalidSessionCount
	}

	existing, err := t.courses.LoadCourse(ctx, patientID, treatment)
	if err != nil && !errors.Is(err, domain.ErrCourseNotFound) {
		return nil, &domain.PersistenceError{Op: "load course", Err: err}
	}
	if existing != nil && existing.Status == domain.CourseActive {
		return nil, domain.ErrCourseExists
	}

	course := &domain.TreatmentCourse{
		ID:                       uuid.NewString(),
		PatientID:                patientID,
		TreatmentType:            treatment,
		TotalSessionsRecommended: totalSessions,
		Status:                   domain.CourseActive,
		CreatedAt:                time.Now(),
	}
	if err := t.courses.CreateCourse(ctx, course); err != nil {
		return nil, &domain.PersistenceError{Op: "create course", Err: err}
	}
	return course, nil
}

// RecordCompletion consumes one session off the active course. The course
// auto-finishes the moment the last session is consumed.
func (t *CourseTracker) RecordCompletion(
	ctx context.Context,
	patientID string,
	treatment domain.TreatmentType,
) (*domain.TreatmentCourse, error) {
	course, err := t.courses.LoadCourse(ctx, patientID, treatment)
	if errors.Is(err, domain.ErrCourseNotFound) {
		return nil, domain.ErrNoActiveCourse
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load course", Err: err}
	}
	if course.Status == domain.CourseFinished {
		return nil, domain.ErrCourseFinished
	}

	course.SessionsCompleted++
	if course.SessionsCompleted >= course.TotalSessionsRecommended {
		now := time.Now()
		course.Status = domain.CourseFinished
		course.FinishedAt = &now
	}
	if err := t.courses.SaveCourse(ctx, course); err != nil {
		return nil, &domain.PersistenceError{Op: "save course", Err: err}
	}
	return course, nil
}

// Progress reports where the patient stands in the course, including the
// earliest future scheduled attendance of the same type when one exists.
func (t *CourseTracker) Progress(
	ctx context.Context,
	patientID string,
	treatment domain.TreatmentType,
) (*domain.CourseProgress, error) {
	course, err := t.courses.LoadCourse(ctx, patientID, treatment)
	if errors.Is(err, domain.ErrCourseNotFound) {
		return nil, domain.ErrNoActiveCourse
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load course", Err: err}
	}

	today := time.Now().Format(domain.DateLayout)
	next, err := t.attendances.NextScheduledDate(ctx, patientID, treatment, today)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "find next session", Err: err}
	}

	return &domain.CourseProgress{
		TotalSessionsRecommended: course.TotalSessionsRecommended,
		SessionsCompleted:        course.SessionsCompleted,
		NextSessionDate:          next,
	}, nil
}
