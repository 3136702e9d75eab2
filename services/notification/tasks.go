package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"bookingcore/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder = "reminder:send"
	TypeDispatch     = "notification:dispatch"
)

// NewReminderTask builds a reminder task that fires at task.At. The task id is
// derived from booking, recipient, channel and fire time so re-scheduling the
// same reminder is a no-op.
func NewReminderTask(task models.ReminderTask) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(task)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.ProcessAt(task.At),
		asynq.TaskID(reminderTaskID(task)),
		asynq.MaxRetry(5),
	}
	return asynq.NewTask(TypeSendReminder, b), opts, nil
}

func reminderTaskID(task models.ReminderTask) string {
	return fmt.Sprintf("reminder:%s:%s:%s:%d", task.BookingID, task.Payload.RecipientID, task.Channel, task.At.Unix())
}

// NewDispatchTask builds an immediate notification task.
func NewDispatchTask(task models.DispatchTask) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(task)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return asynq.NewTask(TypeDispatch, b), opts, nil
}
