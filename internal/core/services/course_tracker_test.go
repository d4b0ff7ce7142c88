package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/services"
	"github.com/amparo-center/attendance-service/test/mocks"
)

func newTrackerFixture() (*services.CourseTracker, *mocks.MockCourseRepository, *mocks.MockAttendanceRepository) {
	courses := mocks.NewMockCourseRepository()
	attendances := mocks.NewMockAttendanceRepository()
	return services.NewCourseTracker(courses, attendances), courses, attendances
}

func TestCourseTracker_StartCourse(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		setup   func(*mocks.MockCourseRepository)
		wantErr error
	}{
		{
			name:  "creates_active_course",
			total: 6,
			setup: func(m *mocks.MockCourseRepository) {},
		},
		{
			name:    "rejects_non_positive_total",
			total:   0,
			setup:   func(m *mocks.MockCourseRepository) {},
			wantErr: domain.ErrInvalidSessionCount,
		},
		{
			name:  "rejects_second_active_course",
			total: 4,
			setup: func(m *mocks.MockCourseRepository) {
				m.Seed(&domain.TreatmentCourse{
					ID:                       "existing",
					PatientID:                "patient-1",
					TreatmentType:            domain.TreatmentRod,
					TotalSessionsRecommended: 3,
					Status:                   domain.CourseActive,
				})
			},
			wantErr: domain.ErrCourseExists,
		},
		{
			name:  "finished_course_does_not_block",
			total: 4,
			setup: func(m *mocks.MockCourseRepository) {
				m.Seed(&domain.TreatmentCourse{
					ID:                       "old",
					PatientID:                "patient-1",
					TreatmentType:            domain.TreatmentRod,
					TotalSessionsRecommended: 3,
					SessionsCompleted:        3,
					Status:                   domain.CourseFinished,
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, courses, _ := newTrackerFixture()
			tt.setup(courses)

			course, err := tracker.StartCourse(context.Background(), "patient-1", domain.TreatmentRod, tt.total)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if course.Status != domain.CourseActive {
				t.Errorf("status = %s, want ACTIVE", course.Status)
			}
			if course.TotalSessionsRecommended != tt.total {
				t.Errorf("total = %d, want %d", course.TotalSessionsRecommended, tt.total)
			}
			if course.SessionsCompleted != 0 {
				t.Errorf("fresh course has %d sessions completed", course.SessionsCompleted)
			}
		})
	}
}

func TestCourseTracker_RecordCompletion_FinishesCourse(t *testing.T) {
	tracker, courses, _ := newTrackerFixture()
	courses.Seed(&domain.TreatmentCourse{
		ID:                       "course-1",
		PatientID:                "patient-1",
		TreatmentType:            domain.TreatmentLightBath,
		TotalSessionsRecommended: 3,
		Status:                   domain.CourseActive,
	})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		course, err := tracker.RecordCompletion(ctx, "patient-1", domain.TreatmentLightBath)
		if err != nil {
			t.Fatalf("completion %d: unexpected error: %v", i, err)
		}
		if course.SessionsCompleted != i {
			t.Errorf("completion %d: sessions = %d", i, course.SessionsCompleted)
		}
	}

	final := courses.Get("patient-1", domain.TreatmentLightBath)
	if final.Status != domain.CourseFinished {
		t.Errorf("status = %s, want FINISHED", final.Status)
	}
	if final.FinishedAt == nil {
		t.Error("expected FinishedAt to be set")
	}
	if final.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", final.Remaining())
	}

	// The fourth completion has no session left to consume.
	if _, err := tracker.RecordCompletion(ctx, "patient-1", domain.TreatmentLightBath); !errors.Is(err, domain.ErrCourseFinished) {
		t.Fatalf("expected ErrCourseFinished, got %v", err)
	}
}

func TestCourseTracker_RecordCompletion_NoCourse(t *testing.T) {
	tracker, _, _ := newTrackerFixture()
	if _, err := tracker.RecordCompletion(context.Background(), "patient-1", domain.TreatmentRod); !errors.Is(err, domain.ErrNoActiveCourse) {
		t.Fatalf("expected ErrNoActiveCourse, got %v", err)
	}
}

func TestCourseTracker_Progress(t *testing.T) {
	tracker, courses, attendances := newTrackerFixture()
	courses.Seed(&domain.TreatmentCourse{
		ID:                       "course-1",
		PatientID:                "patient-1",
		TreatmentType:            domain.TreatmentSpiritual,
		TotalSessionsRecommended: 8,
		SessionsCompleted:        3,
		Status:                   domain.CourseActive,
	})

	// Two future scheduled attendances; the earlier one is the next session.
	farDate := time.Now().AddDate(0, 0, 14).Format(domain.DateLayout)
	nearDate := time.Now().AddDate(0, 0, 7).Format(domain.DateLayout)
	attendances.Seed(&domain.AttendanceRecord{
		ID: "far", PatientID: "patient-1", TreatmentType: domain.TreatmentSpiritual,
		Status: domain.StatusScheduled, ScheduledDate: farDate,
	})
	attendances.Seed(&domain.AttendanceRecord{
		ID: "near", PatientID: "patient-1", TreatmentType: domain.TreatmentSpiritual,
		Status: domain.StatusScheduled, ScheduledDate: nearDate,
	})
	// A completed attendance tomorrow must not count as a next session.
	attendances.Seed(&domain.AttendanceRecord{
		ID: "old", PatientID: "patient-1", TreatmentType: domain.TreatmentSpiritual,
		Status: domain.StatusCompleted, ScheduledDate: time.Now().AddDate(0, 0, 1).Format(domain.DateLayout),
	})

	progress, err := tracker.Progress(context.Background(), "patient-1", domain.TreatmentSpiritual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.SessionsCompleted != 3 || progress.TotalSessionsRecommended != 8 {
		t.Errorf("progress = %+v", progress)
	}
	if progress.NextSessionDate != nearDate {
		t.Errorf("next session = %q, want %q", progress.NextSessionDate, nearDate)
	}
}

func TestCourseTracker_Progress_NoFutureSession(t *testing.T) {
	tracker, courses, _ := newTrackerFixture()
	courses.Seed(&domain.TreatmentCourse{
		ID:                       "course-1",
		PatientID:                "patient-1",
		TreatmentType:            domain.TreatmentSpiritual,
		TotalSessionsRecommended: 8,
		SessionsCompleted:        3,
		Status:                   domain.CourseActive,
	})

	progress, err := tracker.Progress(context.Background(), "patient-1", domain.TreatmentSpiritual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.NextSessionDate != "" {
		t.Errorf("next session = %q, want empty", progress.NextSessionDate)
	}

	if _, err := tracker.Progress(context.Background(), "stranger", domain.TreatmentSpiritual); !errors.Is(err, domain.ErrNoActiveCourse) {
		t.Fatalf("expected ErrNoActiveCourse, got %v", err)
	}
}
