package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/amparo-center/attendance-service/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// statusForError maps core errors onto HTTP status codes. Anything unknown is
// treated as an internal failure.
func statusForError(err error) int {
	var invalid *domain.InvalidTransitionError
	var unresolved *domain.UnresolvedAttendancesError
	var persistence *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrMissingCompletionData),
		errors.Is(err, domain.ErrMissingCancellationReason),
		errors.Is(err, domain.ErrInvalidSessionCount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAttendanceNotFound),
		errors.Is(err, domain.ErrNoActiveCourse),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrNotInQueue),
		errors.Is(err, domain.ErrEmptyQueue):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDaySealed),
		errors.Is(err, domain.ErrDayNotReconciling),
		errors.Is(err, domain.ErrCourseExists),
		errors.Is(err, domain.ErrCourseFinished),
		errors.As(err, &invalid),
		errors.As(err, &unresolved):
		return http.StatusConflict
	case errors.As(err, &persistence):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}
