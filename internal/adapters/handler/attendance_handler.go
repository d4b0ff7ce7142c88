package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amparo-center/attendance-service/internal/adapters/metrics"
	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// AttendanceHandler exposes scheduling, check-in and generic transitions.
// Queue membership follows status: a transition moves the record out of its
// old bucket and into the one matching the new status.
type AttendanceHandler struct {
	lifecycle ports.AttendanceLifecycle
	queue     ports.CallQueue
}

func NewAttendanceHandler(lifecycle ports.AttendanceLifecycle, queue ports.CallQueue) *AttendanceHandler {
	return &AttendanceHandler{lifecycle: lifecycle, queue: queue}
}

type ScheduleRequest struct {
	PatientID     string `json:"patient_id"`
	TreatmentType string `json:"treatment_type"`
	Priority      string `json:"priority"`
	ScheduledDate string `json:"scheduled_date"`
}

type TransitionRequest struct {
	Target          string `json:"target"`
	Notes           string `json:"notes,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

type TransitionResponse struct {
	Record  *domain.AttendanceRecord `json:"record"`
	Warning string                   `json:"warning,omitempty"`
}

func bucketFor(rec *domain.AttendanceRecord, status domain.AttendanceStatus) domain.QueueBucket {
	return domain.QueueBucket{
		Date:          rec.ScheduledDate,
		TreatmentType: rec.TreatmentType,
		Status:        status,
	}
}

// Schedule handles POST /attendances.
func (h *AttendanceHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PatientID == "" || req.TreatmentType == "" || req.ScheduledDate == "" {
		http.Error(w, "patient_id, treatment_type and scheduled_date are required", http.StatusBadRequest)
		return
	}
	priority := domain.Priority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityStandard
	}

	rec, err := h.lifecycle.Schedule(r.Context(), req.PatientID, domain.TreatmentType(req.TreatmentType), priority, req.ScheduledDate)
	if err != nil {
		writeError(w, err)
		return
	}

	h.queue.Enqueue(bucketFor(rec, domain.StatusScheduled), rec)
	writeJSON(w, http.StatusCreated, rec)
}

// CheckIn handles POST /attendances/{id}/check-in.
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, r.PathValue("id"), domain.StatusCheckedIn, domain.TransitionPayload{})
}

// Transition handles POST /attendances/{id}/transition.
func (h *AttendanceHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	payload := domain.TransitionPayload{
		Notes:           req.Notes,
		Recommendations: req.Recommendations,
		Reason:          req.Reason,
	}
	h.applyTransition(w, r, r.PathValue("id"), domain.AttendanceStatus(req.Target), payload)
}

func (h *AttendanceHandler) applyTransition(w http.ResponseWriter, r *http.Request, id string, target domain.AttendanceStatus, payload domain.TransitionPayload) {
	rec, err := h.lifecycle.Transition(r.Context(), id, target, payload)
	if err != nil && rec == nil {
		metrics.TransitionFailures.WithLabelValues(failureReason(err)).Inc()
		writeError(w, err)
		return
	}

	// The record moved; keep the queue buckets in step with its status.
	for _, status := range []domain.AttendanceStatus{domain.StatusScheduled, domain.StatusCheckedIn, domain.StatusOnGoing} {
		if status != rec.Status {
			h.queue.Remove(bucketFor(rec, status), rec.ID)
		}
	}
	switch rec.Status {
	case domain.StatusCheckedIn:
		h.queue.Enqueue(bucketFor(rec, rec.Status), rec)
	case domain.StatusOnGoing:
		h.queue.EnqueueTail(bucketFor(rec, rec.Status), rec)
	default:
		h.queue.Remove(bucketFor(rec, rec.Status), rec.ID)
	}

	metrics.TransitionsTotal.WithLabelValues(string(rec.Status)).Inc()

	resp := TransitionResponse{Record: rec}
	if err != nil {
		// Completion went through but the course bookkeeping did not; the
		// operator decides whether to open a course for the patient.
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func failureReason(err error) string {
	var invalid *domain.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		return "invalid_transition"
	case errors.Is(err, domain.ErrDaySealed):
		return "day_sealed"
	case errors.Is(err, domain.ErrMissingCompletionData):
		return "missing_completion_data"
	case errors.Is(err, domain.ErrMissingCancellationReason):
		return "missing_cancellation_reason"
	default:
		return "other"
	}
}
