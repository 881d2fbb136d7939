package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightdesk/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.task, f.opts = task, opts
	return &asynq.TaskInfo{ID: "rec-1", Type: task.Type()}, nil
}

func TestRecordQueueWrite(t *testing.T) {
	record := models.BookingRecord{
		ID:          "rec-1",
		Reference:   "REF-1",
		Ancillaries: models.Money{Amount: 5500, Currency: "USD"},
		CreatedAt:   time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}
	q := &fakeEnqueuer{}
	require.NoError(t, NewRecordQueue(q).Write(context.Background(), record))

	require.NotNil(t, q.task)
	assert.Equal(t, TypePersistBooking, q.task.Type())

	var taskID any
	for _, opt := range q.opts {
		if opt.Type() == asynq.TaskIDOpt {
			taskID = opt.Value()
		}
	}
	assert.Equal(t, "rec-1", taskID)

	decoded, err := ParsePersistBookingTask(q.task)
	require.NoError(t, err)
	assert.Equal(t, record.Reference, decoded.Reference)
	assert.Equal(t, record.Ancillaries, decoded.Ancillaries)
	assert.True(t, record.CreatedAt.Equal(decoded.CreatedAt))
}

func TestRecordQueueWriteFailure(t *testing.T) {
	q := &fakeEnqueuer{err: errors.New("redis unavailable")}
	err := NewRecordQueue(q).Write(context.Background(), models.BookingRecord{ID: "rec-1"})
	assert.ErrorContains(t, err, "failed to queue booking record")
}
