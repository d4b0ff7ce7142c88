package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
	"github.com/google/uuid"
)

// validEdges is the full transition table. Anything absent here (and not a
// re-entry of the current status) is rejected.
var validEdges = map[domain.AttendanceStatus]map[domain.AttendanceStatus]bool{
	domain.StatusScheduled: {
		domain.StatusCheckedIn: true,
		domain.StatusCancelled: true,
	},
	domain.StatusCheckedIn: {
		domain.StatusOnGoing:   true,
		domain.StatusCancelled: true,
	},
	domain.StatusOnGoing: {
		domain.StatusCompleted: true,
		domain.StatusCancelled: true,
	},
}

// LifecycleService is the attendance state machine. Transitions for the same
// record are serialized through a per-record mutex; transitions for different
// records proceed in parallel.
type LifecycleService struct {
	attendances ports.AttendanceRepository
	courses     ports.CourseProgressTracker
	seals       ports.SealRegistry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ ports.AttendanceLifecycle = (*LifecycleService)(nil)

func NewLifecycleService(
	attendances ports.AttendanceRepository,
	courses ports.CourseProgressTracker,
	seals ports.SealRegistry,
) *LifecycleService {
	return &LifecycleService{
		attendances: attendances,
		courses:     courses,
		seals:       seals,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *LifecycleService) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Schedule creates a fresh attendance in the SCHEDULED state.
func (s *LifecycleService) Schedule(
	ctx context.Context,
	patientID string,
	treatment domain.TreatmentType,
	priority domain.Priority,
	date string,
) (*domain.AttendanceRecord, error) {
	sealed, err := s.seals.IsSealed(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("seal check for %s: %w", date, err)
	}
	if sealed {
		return nil, domain.ErrDaySealed
	}

	rec := &domain.AttendanceRecord{
		ID:            uuid.NewString(),
		PatientID:     patientID,
		TreatmentType: treatment,
		Priority:      priority,
		Status:        domain.StatusScheduled,
		ScheduledDate: date,
		CreatedAt:     time.Now(),
	}

	if err := s.attendances.Create(ctx, rec); err != nil {
		return nil, &domain.PersistenceError{Op: "create attendance", Err: err}
	}
	return rec, nil
}

// Transition validates and applies one state change. Re-entering the current
// status is a no-op success so duplicate UI events are harmless. Completing an
// attendance also increments the matching treatment course; a missing or
// finished course does not undo the completion, the error is returned
// alongside the persisted record for the caller to act on.
func (s *LifecycleService) Transition(
	ctx context.Context,
	id string,
	target domain.AttendanceStatus,
	payload domain.TransitionPayload,
) (*domain.AttendanceRecord, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.attendances.FindByID(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load attendance " + id, Err: err}
	}

	sealed, err := s.seals.IsSealed(ctx, rec.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("seal check for %s: %w", rec.ScheduledDate, err)
	}
	if sealed {
		return nil, domain.ErrDaySealed
	}

	if rec.Status == target {
		return rec, nil
	}
	if !validEdges[rec.Status][target] {
		return nil, &domain.InvalidTransitionError{From: rec.Status, To: target}
	}

	now := time.Now()
	switch target {
	case domain.StatusCheckedIn:
		if rec.CheckedInAt == nil {
			rec.CheckedInAt = &now
		}
	case domain.StatusOnGoing:
		if rec.StartedAt == nil {
			rec.StartedAt = &now
		}
	case domain.StatusCompleted:
		if payload.Notes == "" && payload.Recommendations == "" {
			return nil, domain.ErrMissingCompletionData
		}
		rec.CompletedAt = &now
		rec.Notes = payload.Notes
		rec.Recommendations = payload.Recommendations
	case domain.StatusCancelled:
		if payload.Reason == "" {
			return nil, domain.ErrMissingCancellationReason
		}
		rec.CancelledAt = &now
		rec.CancelReason = payload.Reason
	}
	rec.Status = target

	if target == domain.StatusCompleted {
		evt := ports.AttendanceCompletedEvent{
			AttendanceID:  rec.ID,
			PatientID:     rec.PatientID,
			TreatmentType: rec.TreatmentType,
			CompletedAt:   now,
		}
		body, err := json.Marshal(evt)
		if err != nil {
			return nil, err
		}
		if err := s.attendances.SaveWithEvent(ctx, rec, ports.EventAttendanceCompleted, body); err != nil {
			return nil, &domain.PersistenceError{Op: "save attendance " + id, Err: err}
		}
		if _, err := s.courses.RecordCompletion(ctx, rec.PatientID, rec.TreatmentType); err != nil {
			// One completed attendance consumes exactly one session; when that
			// bookkeeping fails the completion itself stands.
			return rec, fmt.Errorf("course update for attendance %s: %w", rec.ID, err)
		}
		return rec, nil
	}

	if err := s.attendances.Save(ctx, rec); err != nil {
		return nil, &domain.PersistenceError{Op: "save attendance " + id, Err: err}
	}
	return rec, nil
}
