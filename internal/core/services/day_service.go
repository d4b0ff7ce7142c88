package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// DayService drives the end-of-day reconciliation: it classifies stragglers,
// forces each one through completion or reschedule, and seals the day once
// none remain. Sealing is the only globally serialized write for a date; the
// registry's compare-and-swap guarantees a single winner across processes and
// the day mutex serializes it within this one.
type DayService struct {
	attendances ports.AttendanceRepository
	lifecycle   ports.AttendanceLifecycle
	directory   ports.PatientDirectory
	seals       ports.SealRegistry

	mu     sync.Mutex
	phases map[string]domain.DayPhase
}

var _ ports.DayOrchestrator = (*DayService)(nil)

func NewDayService(
	attendances ports.AttendanceRepository,
	lifecycle ports.AttendanceLifecycle,
	directory ports.PatientDirectory,
	seals ports.SealRegistry,
) *DayService {
	return &DayService{
		attendances: attendances,
		lifecycle:   lifecycle,
		directory:   directory,
		seals:       seals,
		phases:      make(map[string]domain.DayPhase),
	}
}

func (s *DayService) phase(date string) domain.DayPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.phases[date]; ok {
		return p
	}
	return domain.DayOpen
}

func (s *DayService) setPhase(date string, p domain.DayPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phases[date] = p
}

// A straggler is anyone who entered the clinic but never reached a terminal
// status. Records still SCHEDULED never showed up and are not blockers.
func isIncomplete(rec *domain.AttendanceRecord) bool {
	return !rec.Status.Terminal() && rec.Status != domain.StatusScheduled
}

// BeginEndOfDay moves the date into reconciliation and returns every
// attendance the operator still has to resolve. Calling it again while
// reconciling recomputes the list.
func (s *DayService) BeginEndOfDay(ctx context.Context, date string) ([]domain.IncompleteAttendance, error) {
	if s.phase(date) == domain.DaySealed {
		return nil, domain.ErrDaySealed
	}
	sealed, err := s.seals.IsSealed(ctx, date)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "seal check " + date, Err: err}
	}
	if sealed {
		s.setPhase(date, domain.DaySealed)
		return nil, domain.ErrDaySealed
	}

	recs, err := s.attendances.FindByDate(ctx, date)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load attendances for " + date, Err: err}
	}

	s.setPhase(date, domain.DayReconciling)

	var incomplete []domain.IncompleteAttendance
	for _, rec := range recs {
		if !isIncomplete(rec) {
			continue
		}
		name, err := s.directory.DisplayName(ctx, rec.PatientID)
		if err != nil {
			log.Printf("day service: patient lookup failed for %s: %v", rec.PatientID, err)
			name = rec.PatientID
		}
		incomplete = append(incomplete, domain.IncompleteAttendance{
			AttendanceID:  rec.ID,
			PatientID:     rec.PatientID,
			PatientName:   name,
			TreatmentType: rec.TreatmentType,
			Status:        rec.Status,
		})
	}
	return incomplete, nil
}

// ResolveAsCompleted applies the completed transition to each id using that
// id's payload. Failures are collected per id and never abort the siblings.
// A completion that went through with a course bookkeeping warning counts as
// resolved, same as a single transition does.
func (s *DayService) ResolveAsCompleted(ctx context.Context, ids []string, payloads map[string]domain.TransitionPayload) domain.ResolutionReport {
	report := make(domain.ResolutionReport, len(ids))
	for _, id := range ids {
		rec, err := s.lifecycle.Transition(ctx, id, domain.StatusCompleted, payloads[id])
		if err != nil && rec != nil {
			log.Printf("day service: attendance %s resolved with warning: %v", id, err)
			err = nil
		}
		report[id] = err
	}
	return report
}

// ResolveAsRescheduled cancels each id with the reschedule reason and creates
// a fresh scheduled attendance for the same patient and treatment on newDate.
func (s *DayService) ResolveAsRescheduled(ctx context.Context, ids []string, newDate string) domain.ResolutionReport {
	report := make(domain.ResolutionReport, len(ids))
	for _, id := range ids {
		rec, err := s.lifecycle.Transition(ctx, id, domain.StatusCancelled, domain.TransitionPayload{Reason: domain.ReasonRescheduled})
		if err != nil {
			report[id] = err
			continue
		}
		_, err = s.lifecycle.Schedule(ctx, rec.PatientID, rec.TreatmentType, rec.Priority, newDate)
		report[id] = err
	}
	return report
}

// SealDay seals the date once no incomplete attendances remain. The date must
// have entered reconciliation through BeginEndOfDay first; a day still open
// here is rejected unless another replica already sealed it. After a
// successful seal no further transitions are accepted for the date.
func (s *DayService) SealDay(ctx context.Context, date string) (*domain.DaySummary, error) {
	switch s.phase(date) {
	case domain.DaySealed:
		return nil, domain.ErrDaySealed
	case domain.DayOpen:
		sealed, err := s.seals.IsSealed(ctx, date)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "seal check " + date, Err: err}
		}
		if sealed {
			s.setPhase(date, domain.DaySealed)
			return nil, domain.ErrDaySealed
		}
		return nil, domain.ErrDayNotReconciling
	}

	recs, err := s.attendances.FindByDate(ctx, date)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load attendances for " + date, Err: err}
	}

	unresolved := 0
	completed := 0
	missed := 0
	for _, rec := range recs {
		switch {
		case isIncomplete(rec):
			unresolved++
		case rec.Status == domain.StatusCompleted:
			completed++
		case rec.Status == domain.StatusCancelled && rec.CancelReason != domain.ReasonRescheduled:
			missed++
		}
	}
	if unresolved > 0 {
		return nil, &domain.UnresolvedAttendancesError{Count: unresolved}
	}

	won, err := s.seals.Seal(ctx, date)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "seal " + date, Err: err}
	}
	if !won {
		s.setPhase(date, domain.DaySealed)
		return nil, domain.ErrDaySealed
	}

	summary := &domain.DaySummary{
		Date:             date,
		TotalAttendances: len(recs),
		CompletedCount:   completed,
		MissedCount:      missed,
		SealedAt:         time.Now(),
	}

	payload, err := json.Marshal(ports.DaySealedEvent{
		Date:             summary.Date,
		TotalAttendances: summary.TotalAttendances,
		CompletedCount:   summary.CompletedCount,
		MissedCount:      summary.MissedCount,
		SealedAt:         summary.SealedAt,
	})
	if err != nil {
		_ = s.seals.Release(ctx, date)
		return nil, err
	}

	if err := s.attendances.RecordDaySeal(ctx, summary, payload); err != nil {
		// The date must stay reconciling when the seal cannot be recorded.
		if relErr := s.seals.Release(ctx, date); relErr != nil {
			log.Printf("day service: failed to release seal for %s: %v", date, relErr)
		}
		return nil, &domain.PersistenceError{Op: "record day seal " + date, Err: err}
	}

	s.setPhase(date, domain.DaySealed)
	return summary, nil
}
