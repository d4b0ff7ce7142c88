package domain

import "time"

// DateLayout is the wire and storage format for scheduled dates.
const DateLayout = "2006-01-02"

type TreatmentType string

const (
	TreatmentSpiritual TreatmentType = "SPIRITUAL"
	TreatmentLightBath TreatmentType = "LIGHT_BATH"
	TreatmentRod       TreatmentType = "ROD"
)

type Priority string

const (
	PriorityException      Priority = "EXCEPTION"
	PriorityElderlyOrChild Priority = "ELDERLY_OR_CHILD"
	PriorityStandard       Priority = "STANDARD"
)

// Rank returns the call-order rank of a priority. Lower ranks are served first.
func (p Priority) Rank() int {
	switch p {
	case PriorityException:
		return 0
	case PriorityElderlyOrChild:
		return 1
	default:
		return 2
	}
}

type AttendanceStatus string

const (
	StatusScheduled AttendanceStatus = "SCHEDULED"
	StatusCheckedIn AttendanceStatus = "CHECKED_IN"
	StatusOnGoing   AttendanceStatus = "ON_GOING"
	StatusCompleted AttendanceStatus = "COMPLETED"
	StatusCancelled AttendanceStatus = "CANCELLED"
)

// Terminal reports whether a status accepts no further transitions.
func (s AttendanceStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ReasonRescheduled is the cancellation reason recorded when an attendance is
// moved to another day instead of being missed outright.
const ReasonRescheduled = "rescheduled"

type AttendanceRecord struct {
	ID            string           `json:"id"`
	PatientID     string           `json:"patient_id"`
	TreatmentType TreatmentType    `json:"treatment_type"`
	Priority      Priority         `json:"priority"`
	Status        AttendanceStatus `json:"status"`
	ScheduledDate string           `json:"scheduled_date"`

	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Notes           string `json:"notes,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	CancelReason    string `json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TransitionPayload carries the outcome data a transition may require:
// notes/recommendations for completion, a reason for cancellation.
type TransitionPayload struct {
	Notes           string `json:"notes,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// QueueBucket identifies one ordered call list: all attendances of one
// treatment section, on one day, sitting in the same status.
type QueueBucket struct {
	Date          string           `json:"date"`
	TreatmentType TreatmentType    `json:"treatment_type"`
	Status        AttendanceStatus `json:"status"`
}
