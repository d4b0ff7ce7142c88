package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/services"
)

var testBucket = domain.QueueBucket{
	Date:          "2025-03-10",
	TreatmentType: domain.TreatmentSpiritual,
	Status:        domain.StatusCheckedIn,
}

func queuedRecord(id string, priority domain.Priority, checkedIn time.Time) *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		ID:            id,
		PatientID:     "patient-" + id,
		TreatmentType: domain.TreatmentSpiritual,
		Priority:      priority,
		Status:        domain.StatusCheckedIn,
		ScheduledDate: "2025-03-10",
		CheckedInAt:   &checkedIn,
		CreatedAt:     checkedIn,
	}
}

func TestCallQueue_PriorityOrdering(t *testing.T) {
	q := services.NewCallQueue()
	base := time.Now()

	// Checked in as standard, exception, elderly-or-child, in that arrival order.
	q.Enqueue(testBucket, queuedRecord("std", domain.PriorityStandard, base))
	q.Enqueue(testBucket, queuedRecord("exc", domain.PriorityException, base.Add(time.Minute)))
	q.Enqueue(testBucket, queuedRecord("eld", domain.PriorityElderlyOrChild, base.Add(2*time.Minute)))

	want := []string{"exc", "eld", "std"}
	for _, expected := range want {
		id, err := q.DequeueNext(testBucket)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != expected {
			t.Errorf("dequeued %s, want %s", id, expected)
		}
	}
}

func TestCallQueue_TiesBrokenByArrival(t *testing.T) {
	q := services.NewCallQueue()
	base := time.Now()

	q.Enqueue(testBucket, queuedRecord("second", domain.PriorityStandard, base.Add(time.Minute)))
	q.Enqueue(testBucket, queuedRecord("first", domain.PriorityStandard, base))

	if got := q.Snapshot(testBucket); got[0] != "first" || got[1] != "second" {
		t.Errorf("order = %v, want [first second]", got)
	}
}

func TestCallQueue_DequeueEmpty(t *testing.T) {
	q := services.NewCallQueue()
	if _, err := q.DequeueNext(testBucket); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Fatalf("expected ErrEmptyQueue, got %v", err)
	}
}

func TestCallQueue_ReorderPinsEntry(t *testing.T) {
	q := services.NewCallQueue()
	base := time.Now()

	q.Enqueue(testBucket, queuedRecord("a", domain.PriorityStandard, base))
	q.Enqueue(testBucket, queuedRecord("b", domain.PriorityStandard, base.Add(time.Minute)))
	q.Enqueue(testBucket, queuedRecord("c", domain.PriorityStandard, base.Add(2*time.Minute)))

	// Operator drags c to the front.
	if err := q.Reorder(testBucket, "c", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.Snapshot(testBucket); got[0] != "c" {
		t.Fatalf("order after reorder = %v, want c first", got)
	}

	// A new exception check-in must not unseat the pinned entry.
	q.Enqueue(testBucket, queuedRecord("vip", domain.PriorityException, base.Add(3*time.Minute)))
	got := q.Snapshot(testBucket)
	if got[0] != "c" {
		t.Errorf("pinned entry lost its slot: %v", got)
	}
	if got[1] != "vip" {
		t.Errorf("new arrival should slot ahead of unpinned entries: %v", got)
	}
}

func TestCallQueue_ReorderUnknownID(t *testing.T) {
	q := services.NewCallQueue()
	if err := q.Reorder(testBucket, "ghost", 0); !errors.Is(err, domain.ErrNotInQueue) {
		t.Fatalf("expected ErrNotInQueue, got %v", err)
	}
}

func TestCallQueue_ReorderClampsIndex(t *testing.T) {
	q := services.NewCallQueue()
	base := time.Now()
	q.Enqueue(testBucket, queuedRecord("a", domain.PriorityStandard, base))
	q.Enqueue(testBucket, queuedRecord("b", domain.PriorityStandard, base.Add(time.Minute)))

	if err := q.Reorder(testBucket, "a", 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := q.Snapshot(testBucket); got[len(got)-1] != "a" {
		t.Errorf("expected a at tail, got %v", got)
	}
}

func TestCallQueue_DuplicateEnqueueIsNoop(t *testing.T) {
	q := services.NewCallQueue()
	rec := queuedRecord("a", domain.PriorityStandard, time.Now())

	q.Enqueue(testBucket, rec)
	q.Enqueue(testBucket, rec)
	q.EnqueueTail(testBucket, rec)

	if depth := q.Depth(testBucket); depth != 1 {
		t.Errorf("depth = %d, want 1", depth)
	}
}

func TestCallQueue_RemoveAndCrossBucketMove(t *testing.T) {
	q := services.NewCallQueue()
	base := time.Now()
	rec := queuedRecord("a", domain.PriorityException, base)
	other := queuedRecord("b", domain.PriorityStandard, base.Add(time.Minute))

	q.Enqueue(testBucket, rec)
	q.Enqueue(testBucket, other)

	// Drag-and-drop to the in-progress column: remove from source, insert at
	// destination tail.
	dest := testBucket
	dest.Status = domain.StatusOnGoing

	if !q.Remove(testBucket, "a") {
		t.Fatal("expected a to be removed from source bucket")
	}
	q.EnqueueTail(dest, rec)

	if got := q.Snapshot(testBucket); len(got) != 1 || got[0] != "b" {
		t.Errorf("source bucket = %v, want [b]", got)
	}
	if got := q.Snapshot(dest); len(got) != 1 || got[0] != "a" {
		t.Errorf("dest bucket = %v, want [a]", got)
	}
	if q.Remove(testBucket, "ghost") {
		t.Error("removing an absent id must report false")
	}
}

func TestCallQueue_RebuildFromRecords(t *testing.T) {
	q := services.NewCallQueue()
	base := time.Now()

	// A stale pre-restart entry for the date must not survive the rebuild.
	q.Enqueue(testBucket, queuedRecord("stale", domain.PriorityStandard, base))

	std := queuedRecord("std", domain.PriorityStandard, base)
	exc := queuedRecord("exc", domain.PriorityException, base.Add(time.Minute))
	done := queuedRecord("done", domain.PriorityStandard, base)
	done.Status = domain.StatusCompleted
	otherDay := queuedRecord("other", domain.PriorityStandard, base)
	otherDay.ScheduledDate = "2025-03-11"
	started := queuedRecord("started", domain.PriorityStandard, base)
	started.Status = domain.StatusOnGoing

	q.Rebuild("2025-03-10", []*domain.AttendanceRecord{std, exc, done, otherDay, started})

	got := q.Snapshot(testBucket)
	if len(got) != 2 || got[0] != "exc" || got[1] != "std" {
		t.Errorf("checked-in bucket = %v, want [exc std]", got)
	}

	onGoing := testBucket
	onGoing.Status = domain.StatusOnGoing
	if got := q.Snapshot(onGoing); len(got) != 1 || got[0] != "started" {
		t.Errorf("on-going bucket = %v, want [started]", got)
	}
}
