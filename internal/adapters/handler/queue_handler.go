package handler

import (
	"encoding/json"
	"net/http"

	"github.com/amparo-center/attendance-service/internal/adapters/metrics"
	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/ports"
)

// QueueHandler exposes the call order within a treatment section.
type QueueHandler struct {
	queue ports.CallQueue
}

func NewQueueHandler(queue ports.CallQueue) *QueueHandler {
	return &QueueHandler{queue: queue}
}

type bucketRequest struct {
	Date          string `json:"date"`
	TreatmentType string `json:"treatment_type"`
	Status        string `json:"status"`
}

func (b bucketRequest) bucket() domain.QueueBucket {
	status := domain.AttendanceStatus(b.Status)
	if b.Status == "" {
		status = domain.StatusCheckedIn
	}
	return domain.QueueBucket{
		Date:          b.Date,
		TreatmentType: domain.TreatmentType(b.TreatmentType),
		Status:        status,
	}
}

type ReorderRequest struct {
	bucketRequest
	AttendanceID string `json:"attendance_id"`
	NewIndex     int    `json:"new_index"`
}

type SnapshotResponse struct {
	Bucket domain.QueueBucket `json:"bucket"`
	Order  []string           `json:"order"`
}

func (h *QueueHandler) setDepth(bucket domain.QueueBucket) {
	metrics.QueueDepth.
		WithLabelValues(string(bucket.TreatmentType), string(bucket.Status)).
		Set(float64(h.queue.Depth(bucket)))
}

// Snapshot handles GET /queue. The UI renders this read-only projection; the
// "select all" affordance is derived from it, never stored.
func (h *QueueHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bucket := bucketRequest{
		Date:          q.Get("date"),
		TreatmentType: q.Get("treatment_type"),
		Status:        q.Get("status"),
	}.bucket()

	h.setDepth(bucket)
	writeJSON(w, http.StatusOK, SnapshotResponse{
		Bucket: bucket,
		Order:  h.queue.Snapshot(bucket),
	})
}

// Reorder handles POST /queue/reorder.
func (h *QueueHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	bucket := req.bucket()
	if err := h.queue.Reorder(bucket, req.AttendanceID, req.NewIndex); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SnapshotResponse{
		Bucket: bucket,
		Order:  h.queue.Snapshot(bucket),
	})
}

// DequeueNext handles POST /queue/next: the section calls its next patient.
func (h *QueueHandler) DequeueNext(w http.ResponseWriter, r *http.Request) {
	var req bucketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	bucket := req.bucket()
	id, err := h.queue.DequeueNext(bucket)
	if err != nil {
		writeError(w, err)
		return
	}
	h.setDepth(bucket)
	writeJSON(w, http.StatusOK, map[string]string{"attendance_id": id})
}
