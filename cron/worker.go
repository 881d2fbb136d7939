package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightdesk/config"
	"flightdesk/models"
	"flightdesk/services/tasks"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RecordStore is where the worker writes booking records.
type RecordStore interface {
	Create(ctx context.Context, record models.BookingRecord) (string, error)
}

// RedisQueueOpt returns the asynq connection for the task queue database.
func RedisQueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitBookingRecordWorker starts the record worker in background and returns the server
// so the caller can shut it down.
func InitBookingRecordWorker(store RecordStore, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisQueueOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger:   logger.Sugar(),
			LogLevel: asynq.WarnLevel,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePersistBooking, handlePersistBooking(store, logger))

	go func() {
		logger.Info("[RecordWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			logger.Warn("[RecordWorker] failed to start worker",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[RecordWorker] max start attempts reached; booking records will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handlePersistBooking(store RecordStore, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		record, err := tasks.ParsePersistBookingTask(task)
		if err != nil {
			logger.Error("[RecordWorker] dropping malformed task", zap.Error(err))
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}

		if _, err := store.Create(ctx, record); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Already written by an earlier attempt.
				return nil
			}
			logger.Warn("[RecordWorker] failed to persist booking record",
				zap.String("reference", record.Reference),
				zap.Error(err))
			return err
		}
		logger.Info("[RecordWorker] booking record persisted",
			zap.String("reference", record.Reference),
			zap.String("sessionId", record.SessionID))
		return nil
	}
}
