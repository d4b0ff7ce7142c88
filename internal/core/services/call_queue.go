package services

import (
	"sync"
	"time"

	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

type queueEntry struct {
	id        string
	rank      int
	arrivedAt time.Time
	pinned    bool
}

// CallQueue keeps one ordered list of attendance ids per
// (date, treatment, status) bucket. Default order is priority rank ascending,
// ties broken by arrival time. An entry moved by hand is pinned to its slot
// and holds it until it leaves the bucket; new arrivals are slotted by default
// order considering only unpinned entries, so pinned entries never shift.
type CallQueue struct {
	mu      sync.Mutex
	buckets map[domain.QueueBucket][]queueEntry
}

var _ ports.CallQueue = (*CallQueue)(nil)

func NewCallQueue() *CallQueue {
	return &CallQueue{
		buckets: make(map[domain.QueueBucket][]queueEntry),
	}
}

func entryFor(rec *domain.AttendanceRecord) queueEntry {
	arrived := rec.CreatedAt
	if rec.CheckedInAt != nil {
		arrived = *rec.CheckedInAt
	}
	return queueEntry{
		id:        rec.ID,
		rank:      rec.Priority.Rank(),
		arrivedAt: arrived,
	}
}

func before(a, b queueEntry) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.arrivedAt.Before(b.arrivedAt)
}

func contains(entries []queueEntry, id string) bool {
	for _, e := range entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// Enqueue inserts the record at its default-ordered position. Re-enqueueing
// an id already in the bucket is a no-op, so duplicate UI events cannot
// double-queue a patient or unseat a manual placement.
func (q *CallQueue) Enqueue(bucket domain.QueueBucket, rec *domain.AttendanceRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueueLocked(bucket, rec)
}

func (q *CallQueue) enqueueLocked(bucket domain.QueueBucket, rec *domain.AttendanceRecord) {
	entries := q.buckets[bucket]
	if contains(entries, rec.ID) {
		return
	}
	e := entryFor(rec)

	idx := len(entries)
	for i, cur := range entries {
		if cur.pinned {
			continue
		}
		if before(e, cur) {
			idx = i
			break
		}
	}
	entries = append(entries, queueEntry{})
	copy(entries[idx+1:], entries[idx:])
	entries[idx] = e
	q.buckets[bucket] = entries
}

// Rebuild repopulates the date's buckets from persisted records so the call
// order survives a process restart. Stale entries for that date are dropped
// first; records in a terminal status or on another date are skipped. Manual
// placements do not survive a restart, rebuilt buckets use default order.
func (q *CallQueue) Rebuild(date string, recs []*domain.AttendanceRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for bucket := range q.buckets {
		if bucket.Date == date {
			delete(q.buckets, bucket)
		}
	}
	for _, rec := range recs {
		if rec.ScheduledDate != date || rec.Status.Terminal() {
			continue
		}
		q.enqueueLocked(domain.QueueBucket{
			Date:          date,
			TreatmentType: rec.TreatmentType,
			Status:        rec.Status,
		}, rec)
	}
}

// EnqueueTail appends the record at the end of the bucket, used when an entry
// is relocated across buckets.
func (q *CallQueue) EnqueueTail(bucket domain.QueueBucket, rec *domain.AttendanceRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if contains(q.buckets[bucket], rec.ID) {
		return
	}
	q.buckets[bucket] = append(q.buckets[bucket], entryFor(rec))
}

// Reorder moves an entry to an explicit position and pins it there.
func (q *CallQueue) Reorder(bucket domain.QueueBucket, id string, newIndex int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.buckets[bucket]
	from := -1
	for i, e := range entries {
		if e.id == id {
			from = i
			break
		}
	}
	if from == -1 {
		return domain.ErrNotInQueue
	}

	e := entries[from]
	e.pinned = true
	entries = append(entries[:from], entries[from+1:]...)

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(entries) {
		newIndex = len(entries)
	}
	entries = append(entries, queueEntry{})
	copy(entries[newIndex+1:], entries[newIndex:])
	entries[newIndex] = e
	q.buckets[bucket] = entries
	return nil
}

// DequeueNext removes and returns the head of the bucket.
func (q *CallQueue) DequeueNext(bucket domain.QueueBucket) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.buckets[bucket]
	if len(entries) == 0 {
		return "", domain.ErrEmptyQueue
	}
	head := entries[0]
	q.buckets[bucket] = entries[1:]
	return head.id, nil
}

// Remove drops an entry from the bucket, reporting whether it was present.
func (q *CallQueue) Remove(bucket domain.QueueBucket, id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.buckets[bucket]
	for i, e := range entries {
		if e.id == id {
			q.buckets[bucket] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns the bucket's ids in call order. Read-only projection for
// the operator UI.
func (q *CallQueue) Snapshot(bucket domain.QueueBucket) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.buckets[bucket]
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// Depth returns the number of entries in the bucket.
func (q *CallQueue) Depth(bucket domain.QueueBucket) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buckets[bucket])
}
