package notification

import (
	"fmt"
	"strings"

	"bookingcore/models"
)

type template struct {
	Title string
	Body  string
}

var templates = map[string]template{
	models.TemplateBookingConfirmed: {
		Title: "Booking {booking_number} confirmed",
		Body:  "{counterparty} confirmed your {service} on {date} at {time}. Address: {address}. Contact: {phone}.",
	},
	models.TemplateBookingConfirmedProv: {
		Title: "New confirmed booking {booking_number}",
		Body:  "{service} with {counterparty} on {date} at {time}. Address: {address}. Contact: {phone}.",
	},
	models.TemplateBookingCancelled: {
		Title: "Booking {booking_number} cancelled",
		Body:  "{counterparty} cancelled the {service} on {date} at {time}. Reason: {reason}.",
	},
	models.TemplateBookingReminder: {
		Title: "Upcoming booking {booking_number}",
		Body:  "Reminder: {service} with {counterparty} on {date} at {time}.",
	},
	models.TemplatePaymentLink: {
		Title: "Deposit for booking {booking_number}",
		Body:  "Please pay the deposit of {amount} for your {service} on {date}: {payment_url}",
	},
}

// Render fills the named template with payload values.
func Render(templateType string, p models.NotificationPayload) (title, body string, err error) {
	t, ok := templates[templateType]
	if !ok {
		return "", "", fmt.Errorf("unknown notification template: %s", templateType)
	}
	r := strings.NewReplacer(placeholders(p)...)
	return r.Replace(t.Title), r.Replace(t.Body), nil
}

func placeholders(p models.NotificationPayload) []string {
	values := map[string]string{
		"booking_number": p.BookingNumber,
		"counterparty":   orDefault(p.CounterpartyName, "Your contact"),
		"service":        orDefault(p.ServiceName, "appointment"),
		"date":           p.Date,
		"time":           p.Time,
		"address":        orDefault(p.Address, "n/a"),
		"phone":          orDefault(p.Phone, "n/a"),
		"reason":         orDefault(p.Reason, "not given"),
		"payment_url":    p.PaymentURL,
		"amount":         fmt.Sprintf("%.2f", p.Amount),
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return pairs
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// dataFor is the key/value data attached to push messages.
func dataFor(templateType string, p models.NotificationPayload) map[string]string {
	data := map[string]string{
		"type":          templateType,
		"bookingId":     p.BookingID,
		"bookingNumber": p.BookingNumber,
	}
	if p.PaymentURL != "" {
		data["paymentUrl"] = p.PaymentURL
	}
	return data
}
