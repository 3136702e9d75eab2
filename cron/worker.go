package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookingcore/models"
	"bookingcore/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Delivery is what the worker needs from the notification deliverer.
type Delivery interface {
	DeliverReminder(ctx context.Context, task models.ReminderTask) error
	DeliverDispatch(ctx context.Context, task models.DispatchTask) error
}

// NewNotificationMux routes queued notification tasks to their handlers.
func NewNotificationMux(delivery Delivery, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeSendReminder, handleReminderTask(delivery, logger))
	mux.HandleFunc(notification.TypeDispatch, handleDispatchTask(delivery, logger))
	return mux
}

// InitNotificationWorker runs the async worker in background. It retries
// startup with a growing delay and returns the server for shutdown.
func InitNotificationWorker(redisOpts asynq.RedisClientOpt, concurrency int, delivery Delivery, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := NewNotificationMux(delivery, logger)

	go func() {
		logger.Info("Starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Notification worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Max retry attempts reached, notification worker stopped")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleReminderTask(delivery Delivery, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderTask
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		logger.Debug("Delivering reminder",
			zap.String("booking_id", p.BookingID),
			zap.String("recipient_id", p.Payload.RecipientID),
			zap.String("channel", p.Channel))
		if err := delivery.DeliverReminder(ctx, p); err != nil {
			logger.Warn("Reminder delivery failed", zap.String("booking_id", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleDispatchTask(delivery Delivery, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.DispatchTask
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid dispatch payload", zap.Error(err))
			return fmt.Errorf("invalid dispatch payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := delivery.DeliverDispatch(ctx, p); err != nil {
			logger.Warn("Notification dispatch failed",
				zap.String("booking_id", p.Payload.BookingID),
				zap.String("template", p.Template),
				zap.Error(err))
			return err
		}
		return nil
	}
}
