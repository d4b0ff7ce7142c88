package domain

import "time"

type DayPhase string

const (
	DayOpen        DayPhase = "OPEN"
	DayReconciling DayPhase = "RECONCILING"
	DaySealed      DayPhase = "SEALED"
)

// DaySummary is emitted once when a day is sealed. MissedCount counts
// cancellations that were not reschedules.
type DaySummary struct {
	Date             string    `json:"date"`
	TotalAttendances int       `json:"total_attendances"`
	CompletedCount   int       `json:"completed_count"`
	MissedCount      int       `json:"missed_count"`
	SealedAt         time.Time `json:"sealed_at"`
}

// IncompleteAttendance describes a straggler the operator must resolve before
// the day can be sealed. PatientName falls back to the patient id when the
// directory lookup fails.
type IncompleteAttendance struct {
	AttendanceID  string           `json:"attendance_id"`
	PatientID     string           `json:"patient_id"`
	PatientName   string           `json:"patient_name"`
	TreatmentType TreatmentType    `json:"treatment_type"`
	Status        AttendanceStatus `json:"status"`
}

// ResolutionReport maps attendance ids to the outcome of a bulk resolution
// attempt; a nil value means the id was resolved.
type ResolutionReport map[string]error

// FailedCount returns how many ids in the report carry an error.
func (r ResolutionReport) FailedCount() int {
	n := 0
	for _, err := range r {
		if err != nil {
			n++
		}
	}
	return n
}
