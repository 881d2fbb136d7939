package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flightdesk/models"

	"github.com/hibiken/asynq"
)

const TypePersistBooking = "booking:persist"

// NewPersistBookingTask wraps a confirmed booking for the record worker. The task ID is
// the record ID, so a record is queued at most once.
func NewPersistBookingTask(record models.BookingRecord) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePersistBooking, b)
	opts := []asynq.Option{
		asynq.TaskID(record.ID),
		asynq.MaxRetry(10),
		asynq.Timeout(30 * time.Second),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// ParsePersistBookingTask decodes the record carried by a task.
func ParsePersistBookingTask(task *asynq.Task) (models.BookingRecord, error) {
	var record models.BookingRecord
	if err := json.Unmarshal(task.Payload(), &record); err != nil {
		return models.BookingRecord{}, fmt.Errorf("invalid booking record payload: %w", err)
	}
	return record, nil
}

// Enqueuer is the slice of asynq.Client used to queue tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RecordQueue hands confirmed bookings to the record worker.
type RecordQueue struct {
	client Enqueuer
}

func NewRecordQueue(client Enqueuer) *RecordQueue {
	return &RecordQueue{client: client}
}

// Write queues the record for persistence.
func (q *RecordQueue) Write(ctx context.Context, record models.BookingRecord) error {
	task, opts, err := NewPersistBookingTask(record)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to queue booking record: %w", err)
	}
	return nil
}
