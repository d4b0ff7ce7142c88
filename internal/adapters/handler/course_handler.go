package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// CourseHandler exposes treatment-course creation and progress.
type CourseHandler struct {
	tracker ports.CourseProgressTracker
}

func NewCourseHandler(tracker ports.CourseProgressTracker) *CourseHandler {
	return &CourseHandler{tracker: tracker}
}

type StartCourseRequest struct {
	PatientID     string `json:"patient_id"`
	TreatmentType string `json:"treatment_type"`
	TotalSessions int    `json:"total_sessions"`
}

// Start handles POST /courses.
func (h *CourseHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PatientID == "" || req.TreatmentType == "" {
		http.Error(w, "patient_id and treatment_type are required", http.StatusBadRequest)
		return
	}

	course, err := h.tracker.StartCourse(r.Context(), req.PatientID, domain.TreatmentType(req.TreatmentType), req.TotalSessions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// Progress handles GET /courses/progress.
func (h *CourseHandler) Progress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	patientID := q.Get("patient_id")
	treatment := q.Get("treatment_type")
	if patientID == "" || treatment == "" {
		http.Error(w, "patient_id and treatment_type are required", http.StatusBadRequest)
		return
	}

	progress, err := h.tracker.Progress(r.Context(), patientID, domain.TreatmentType(treatment))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
