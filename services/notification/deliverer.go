package notification

import (
	"context"
	"errors"
	"fmt"

	"bookingcore/metrics"
	"bookingcore/models"

	"go.uber.org/zap"
)

// Deliverer renders queued tasks and hands them to the channel senders.
type Deliverer struct {
	senders map[string]Sender
	logger  *zap.Logger
}

func NewDeliverer(senders map[string]Sender, logger *zap.Logger) *Deliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deliverer{senders: senders, logger: logger}
}

// DeliverReminder sends one reminder on its channel.
func (d *Deliverer) DeliverReminder(ctx context.Context, task models.ReminderTask) error {
	return d.deliver(ctx, task.Payload.RecipientID, models.TemplateBookingReminder, task.Payload, task.Channel)
}

// DeliverDispatch sends the task on every requested channel. A failing
// channel does not stop the others; the joined error makes asynq retry.
func (d *Deliverer) DeliverDispatch(ctx context.Context, task models.DispatchTask) error {
	var errs []error
	for _, channel := range task.Channels {
		if err := d.deliver(ctx, task.UserID, task.Template, task.Payload, channel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Deliverer) deliver(ctx context.Context, userID, templateType string, p models.NotificationPayload, channel string) error {
	sender, ok := d.senders[channel]
	if !ok {
		d.logger.Warn("No sender for channel, dropping notification",
			zap.String("channel", channel),
			zap.String("template", templateType),
			zap.String("booking_id", p.BookingID))
		return nil
	}

	title, body, err := Render(templateType, p)
	if err != nil {
		return err
	}
	n := models.Notification{
		UserID:  userID,
		Channel: channel,
		Title:   title,
		Body:    body,
		Data:    dataFor(templateType, p),
	}
	if err := sender.Send(ctx, n); err != nil {
		return fmt.Errorf("%s via %s for %s: %w", templateType, channel, userID, err)
	}
	metrics.RecordNotificationDelivered(channel, templateType)
	return nil
}
