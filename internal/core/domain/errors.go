package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCompletionData     = errors.New("completion requires notes or recommendations")
	ErrMissingCancellationReason = errors.New("cancellation requires a reason")
	ErrEmptyQueue                = errors.New("queue bucket is empty")
	ErrNotInQueue                = errors.New("attendance is not in the queue bucket")
	ErrNoActiveCourse            = errors.New("no active treatment course")
	ErrCourseFinished            = errors.New("treatment course already finished")
	ErrCourseExists              = errors.New("patient already has an active course for this treatment")
	ErrCourseNotFound            = errors.New("treatment course not found")
	ErrAttendanceNotFound        = errors.New("attendance not found")
	ErrInvalidSessionCount       = errors.New("total sessions must be a positive number")
	ErrDaySealed                 = errors.New("day is sealed")
	ErrDayNotReconciling         = errors.New("day reconciliation has not begun")
)

// InvalidTransitionError identifies both ends of a rejected transition.
type InvalidTransitionError struct {
	From AttendanceStatus
	To   AttendanceStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// UnresolvedAttendancesError blocks sealing while stragglers remain.
type UnresolvedAttendancesError struct {
	Count int
}

func (e *UnresolvedAttendancesError) Error() string {
	return fmt.Sprintf("%d unresolved attendances remain", e.Count)
}

// PersistenceError wraps a failure from the persistence gateway so callers can
// distinguish storage trouble from domain rule violations.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
