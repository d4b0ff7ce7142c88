package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amparo-center/attendance-service/internal/adapters/metrics"
	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// DayHandler exposes the end-of-day reconciliation workflow.
type DayHandler struct {
	days ports.DayOrchestrator
}

func NewDayHandler(days ports.DayOrchestrator) *DayHandler {
	return &DayHandler{days: days}
}

type DayRequest struct {
	Date string `json:"date"`
}

// CompletionPayload carries the outcome data the operator entered for one
// attendance during reconciliation.
type CompletionPayload struct {
	Notes           string `json:"notes,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
}

type ResolveCompletedRequest struct {
	AttendanceIDs []string                     `json:"attendance_ids"`
	Payloads      map[string]CompletionPayload `json:"payloads"`
}

type ResolveRescheduledRequest struct {
	AttendanceIDs []string `json:"attendance_ids"`
	NewDate       string   `json:"new_date"`
}

// ResolutionResponse reports the per-id outcome of a bulk resolution. "ok"
// marks a resolved id, anything else is that id's error.
type ResolutionResponse struct {
	Results map[string]string `json:"results"`
}

func resolutionResponse(report domain.ResolutionReport) ResolutionResponse {
	results := make(map[string]string, len(report))
	for id, err := range report {
		if err == nil {
			results[id] = "ok"
		} else {
			results[id] = err.Error()
		}
	}
	return ResolutionResponse{Results: results}
}

// Begin handles POST /day/begin.
func (h *DayHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req DayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	incomplete, err := h.days.BeginEndOfDay(r.Context(), req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":       req.Date,
		"incomplete": incomplete,
	})
}

// ResolveCompleted handles POST /day/resolve-completed.
func (h *DayHandler) ResolveCompleted(w http.ResponseWriter, r *http.Request) {
	var req ResolveCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	payloads := make(map[string]domain.TransitionPayload, len(req.Payloads))
	for id, p := range req.Payloads {
		payloads[id] = domain.TransitionPayload{
			Notes:           p.Notes,
			Recommendations: p.Recommendations,
		}
	}
	report := h.days.ResolveAsCompleted(r.Context(), req.AttendanceIDs, payloads)
	writeJSON(w, http.StatusOK, resolutionResponse(report))
}

// ResolveRescheduled handles POST /day/resolve-rescheduled.
func (h *DayHandler) ResolveRescheduled(w http.ResponseWriter, r *http.Request) {
	var req ResolveRescheduledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.NewDate == "" {
		http.Error(w, "new_date is required", http.StatusBadRequest)
		return
	}

	report := h.days.ResolveAsRescheduled(r.Context(), req.AttendanceIDs, req.NewDate)
	writeJSON(w, http.StatusOK, resolutionResponse(report))
}

// Seal handles POST /day/seal.
func (h *DayHandler) Seal(w http.ResponseWriter, r *http.Request) {
	var req DayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	summary, err := h.days.SealDay(r.Context(), req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.DaysSealed.Inc()
	writeJSON(w, http.StatusOK, summary)
}
