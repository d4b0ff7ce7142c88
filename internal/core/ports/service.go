package ports

import (
	"context"

	"github.com/amparo-center/attendance-service/internal/core/domain"
)

type AttendanceLifecycle interface {
	Schedule(ctx context.Context, patientID string, treatment domain.TreatmentType, priority domain.Priority, date string) (*domain.AttendanceRecord, error)
	Transition(ctx context.Context, id string, target domain.AttendanceStatus, payload domain.TransitionPayload) (*domain.AttendanceRecord, error)
}

// CallQueue orders pending attendances within a treatment section. It is an
// in-process structure rebuilt from the day's records on startup, so its
// operations are not context-bound.
type CallQueue interface {
	Rebuild(date string, recs []*domain.AttendanceRecord)
	Enqueue(bucket domain.QueueBucket, rec *domain.AttendanceRecord)
	EnqueueTail(bucket domain.QueueBucket, rec *domain.AttendanceRecord)
	Reorder(bucket domain.QueueBucket, id string, newIndex int) error
	DequeueNext(bucket domain.QueueBucket) (string, error)
	Remove(bucket domain.QueueBucket, id string) bool
	Snapshot(bucket domain.QueueBucket) []string
	Depth(bucket domain.QueueBucket) int
}

type CourseProgressTracker interface {
	StartCourse(ctx context.Context, patientID string, treatment domain.TreatmentType, totalSessions int) (*domain.TreatmentCourse, error)
	RecordCompletion(ctx context.Context, patientID string, treatment domain.TreatmentType) (*domain.TreatmentCourse, error)
	Progress(ctx context.Context, patientID string, treatment domain.TreatmentType) (*domain.CourseProgress, error)
}

type DayOrchestrator interface {
	BeginEndOfDay(ctx context.Context, date string) ([]domain.IncompleteAttendance, error)
	ResolveAsCompleted(ctx context.Context, ids []string, payloads map[string]domain.TransitionPayload) domain.ResolutionReport
	ResolveAsRescheduled(ctx context.Context, ids []string, newDate string) domain.ResolutionReport
	SealDay(ctx context.Context, date string) (*domain.DaySummary, error)
}
