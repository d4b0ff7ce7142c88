package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
	"github.com/google/uuid"
)

// SQLRepository is the Postgres persistence gateway for attendances, courses
// and the day ledger.
type SQLRepository struct {
	db *sql.DB
}

var _ ports.AttendanceRepository = (*SQLRepository)(nil)
var _ ports.CourseRepository = (*SQLRepository)(nil)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const attendanceColumns = `id, patient_id, treatment_type, priority, status, scheduled_date,
	checked_in_at, started_at, completed_at, cancelled_at,
	notes, recommendations, cancel_reason, created_at`

func scanAttendance(row interface{ Scan(...any) error }) (*domain.AttendanceRecord, error) {
	var rec domain.AttendanceRecord
	var checkedIn, started, completed, cancelled sql.NullTime
	err := row.Scan(
		&rec.ID,
		&rec.PatientID,
		&rec.TreatmentType,
		&rec.Priority,
		&rec.Status,
		&rec.ScheduledDate,
		&checkedIn,
		&started,
		&completed,
		&cancelled,
		&rec.Notes,
		&rec.Recommendations,
		&rec.CancelReason,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.CheckedInAt = timePtr(checkedIn)
	rec.StartedAt = timePtr(started)
	rec.CompletedAt = timePtr(completed)
	rec.CancelledAt = timePtr(cancelled)
	return &rec, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*domain.AttendanceRecord, error) {
	rec, err := scanAttendance(r.db.QueryRowContext(
		ctx,
		"SELECT "+attendanceColumns+" FROM attendances WHERE id = $1",
		id,
	))
	if err == sql.ErrNoRows {
		return nil, domain.ErrAttendanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLRepository) FindByDate(ctx context.Context, date string) ([]*domain.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(
		ctx,
		"SELECT "+attendanceColumns+" FROM attendances WHERE scheduled_date = $1 ORDER BY created_at",
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*domain.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *SQLRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendances
			(id, patient_id, treatment_type, priority, status, scheduled_date,
			 notes, recommendations, cancel_reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID,
		rec.PatientID,
		rec.TreatmentType,
		rec.Priority,
		rec.Status,
		rec.ScheduledDate,
		rec.Notes,
		rec.Recommendations,
		rec.CancelReason,
		rec.CreatedAt,
	)
	return err
}

const updateAttendanceQuery = `UPDATE attendances SET
	status = $1, checked_in_at = $2, started_at = $3, completed_at = $4,
	cancelled_at = $5, notes = $6, recommendations = $7, cancel_reason = $8
	WHERE id = $9`

func updateArgs(rec *domain.AttendanceRecord) []any {
	return []any{
		rec.Status,
		rec.CheckedInAt,
		rec.StartedAt,
		rec.CompletedAt,
		rec.CancelledAt,
		rec.Notes,
		rec.Recommendations,
		rec.CancelReason,
		rec.ID,
	}
}

func (r *SQLRepository) Save(ctx context.Context, rec *domain.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, updateAttendanceQuery, updateArgs(rec)...)
	return err
}

// SaveWithEvent updates the record and writes the outbox event in one
// transaction so the relay can never see a completion that was rolled back.
func (r *SQLRepository) SaveWithEvent(ctx context.Context, rec *domain.AttendanceRecord, eventType string, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, updateAttendanceQuery, updateArgs(rec)...); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())",
		uuid.NewString(),
		eventType,
		payload,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLRepository) NextScheduledDate(ctx context.Context, patientID string, treatment domain.TreatmentType, after string) (string, error) {
	var next sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MIN(scheduled_date) FROM attendances
		 WHERE patient_id = $1 AND treatment_type = $2 AND status = $3 AND scheduled_date > $4`,
		patientID,
		treatment,
		domain.StatusScheduled,
		after,
	).Scan(&next)
	if err != nil {
		return "", err
	}
	if !next.Valid {
		return "", nil
	}
	return next.String, nil
}

func (r *SQLRepository) RecordDaySeal(ctx context.Context, summary *domain.DaySummary, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO day_seals (date, total_attendances, completed_count, missed_count, sealed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		summary.Date,
		summary.TotalAttendances,
		summary.CompletedCount,
		summary.MissedCount,
		summary.SealedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())",
		uuid.NewString(),
		ports.EventDaySealed,
		payload,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLRepository) LoadCourse(ctx context.Context, patientID string, treatment domain.TreatmentType) (*domain.TreatmentCourse, error) {
	var course domain.TreatmentCourse
	var finished sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, patient_id, treatment_type, total_sessions_recommended,
			sessions_completed, status, created_at, finished_at
		 FROM treatment_courses
		 WHERE patient_id = $1 AND treatment_type = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		patientID,
		treatment,
	).Scan(
		&course.ID,
		&course.PatientID,
		&course.TreatmentType,
		&course.TotalSessionsRecommended,
		&course.SessionsCompleted,
		&course.Status,
		&course.CreatedAt,
		&finished,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	course.FinishedAt = timePtr(finished)
	return &course, nil
}

func (r *SQLRepository) CreateCourse(ctx context.Context, course *domain.TreatmentCourse) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO treatment_courses
			(id, patient_id, treatment_type, total_sessions_recommended,
			 sessions_completed, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		course.ID,
		course.PatientID,
		course.TreatmentType,
		course.TotalSessionsRecommended,
		course.SessionsCompleted,
		course.Status,
		course.CreatedAt,
	)
	return err
}

func (r *SQLRepository) SaveCourse(ctx context.Context, course *domain.TreatmentCourse) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE treatment_courses
		 SET sessions_completed = $1, status = $2, finished_at = $3
		 WHERE id = $4`,
		course.SessionsCompleted,
		course.Status,
		course.FinishedAt,
		course.ID,
	)
	return err
}
