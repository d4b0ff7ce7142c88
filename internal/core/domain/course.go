package domain

import "time"

type CourseStatus string

const (
	CourseActive   CourseStatus = "ACTIVE"
	CourseFinished CourseStatus = "FINISHED"
)

// TreatmentCourse tracks a multi-visit treatment recommendation. A patient has
// at most one active course per treatment type; each completed attendance of
// that type consumes exactly one session.
type TreatmentCourse struct {
	ID                       string        `json:"id"`
	PatientID                string        `json:"patient_id"`
	TreatmentType            TreatmentType `json:"treatment_type"`
	TotalSessionsRecommended int           `json:"total_sessions_recommended"`
	SessionsCompleted        int           `json:"sessions_completed"`
	Status                   CourseStatus  `json:"status"`
	CreatedAt                time.Time     `json:"created_at"`
	FinishedAt               *time.Time    `json:"finished_at,omitempty"`
}

// Remaining returns the number of sessions still owed on the course.
func (c *TreatmentCourse) Remaining() int {
	return c.TotalSessionsRecommended - c.SessionsCompleted
}

// CourseProgress is the read model returned to callers asking where a patient
// stands in a course. NextSessionDate is empty when no future attendance of
// the course's type is scheduled.
type CourseProgress struct {
	TotalSessionsRecommended int    `json:"total_sessions_recommended"`
	SessionsCompleted        int    `json:"sessions_completed"`
	NextSessionDate          string `json:"next_session_date,omitempty"`
}
