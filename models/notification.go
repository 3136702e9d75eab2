package models

import "time"

// Notification channels.
const (
	ChannelPush  = "push"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Notification template types.
const (
	TemplateBookingConfirmed     = "booking_confirmed"
	TemplateBookingConfirmedProv = "booking_confirmed_provider"
	TemplateBookingCancelled     = "booking_cancelled"
	TemplateBookingReminder      = "booking_reminder"
	TemplatePaymentLink          = "payment_link"
)

// NotificationPayload holds the fields rendered into notification templates.
type NotificationPayload struct {
	RecipientID      string  `json:"recipient_id"`
	BookingID        string  `json:"booking_id"`
	BookingNumber    string  `json:"booking_number"`
	CounterpartyName string  `json:"counterparty_name,omitempty"`
	ServiceName      string  `json:"service_name,omitempty"`
	Date             string  `json:"date,omitempty"`
	Time             string  `json:"time,omitempty"`
	Address          string  `json:"address,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	PaymentURL       string  `json:"payment_url,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	Reason           string  `json:"reason,omitempty"`
}

// ReminderTask is the queued unit for a deferred reminder.
type ReminderTask struct {
	BookingID string              `json:"booking_id"`
	Channel   string              `json:"channel"`
	At        time.Time           `json:"at"`
	Payload   NotificationPayload `json:"payload"`
}

// DispatchTask is the queued unit for an immediate notification.
type DispatchTask struct {
	UserID   string              `json:"user_id"`
	Template string              `json:"template"`
	Channels []string            `json:"channels"`
	Payload  NotificationPayload `json:"payload"`
}

// Notification is a rendered message ready for delivery.
type Notification struct {
	UserID  string            `json:"userId"`
	Channel string            `json:"channel"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data"`
}
