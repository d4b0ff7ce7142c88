package ports

import (
	"context"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
)

const (
	EventAttendanceCompleted = "attendance.completed"
	EventDaySealed           = "day.sealed"
)

type AttendanceCompletedEvent struct {
	AttendanceID  string               `json:"attendance_id"`
	PatientID     string               `json:"patient_id"`
	TreatmentType domain.TreatmentType `json:"treatment_type"`
	CompletedAt   time.Time            `json:"completed_at"`
}

type DaySealedEvent struct {
	Date             string    `json:"date"`
	TotalAttendances int       `json:"total_attendances"`
	CompletedCount   int       `json:"completed_count"`
	MissedCount      int       `json:"missed_count"`
	SealedAt         time.Time `json:"sealed_at"`
}

type EventPublisher interface {
	PublishAttendanceCompleted(ctx context.Context, evt AttendanceCompletedEvent) error
	PublishDaySealed(ctx context.Context, evt DaySealedEvent) error
}
