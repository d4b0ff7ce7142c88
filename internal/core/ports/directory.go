package ports

import "context"

// PatientDirectory resolves patient ids to display names for operator-facing
// summaries. Patients are owned by another service; this core never stores
// anything beyond the id.
type PatientDirectory interface {
	DisplayName(ctx context.Context, patientID string) (string, error)
}
