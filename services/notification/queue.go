package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingcore/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the subset of *asynq.Client used by AsynqNotifier.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier hands reminders and dispatches to the asynq queue. Delivery
// and retries happen in the worker.
type AsynqNotifier struct {
	queue  Enqueuer
	logger *zap.Logger
}

func NewAsynqNotifier(queue Enqueuer, logger *zap.Logger) *AsynqNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqNotifier{queue: queue, logger: logger}
}

func (n *AsynqNotifier) ScheduleReminder(ctx context.Context, bookingID, channel string, at time.Time, payload models.NotificationPayload) error {
	task, opts, err := NewReminderTask(models.ReminderTask{
		BookingID: bookingID,
		Channel:   channel,
		At:        at,
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}

	info, err := n.queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		n.logger.Debug("Reminder already scheduled",
			zap.String("booking_id", bookingID),
			zap.String("recipient_id", payload.RecipientID),
			zap.Time("at", at))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	n.logger.Debug("Reminder scheduled",
		zap.String("booking_id", bookingID),
		zap.String("task_id", info.ID),
		zap.Time("at", at))
	return nil
}

func (n *AsynqNotifier) Dispatch(ctx context.Context, userID, templateType string, payload models.NotificationPayload, channels []string) error {
	task, opts, err := NewDispatchTask(models.DispatchTask{
		UserID:   userID,
		Template: templateType,
		Channels: channels,
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("failed to build dispatch task: %w", err)
	}
	if _, err := n.queue.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue %s notification: %w", templateType, err)
	}
	return nil
}
