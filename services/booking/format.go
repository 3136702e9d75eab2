package booking

import (
	"fmt"
	"time"

	"bookingcore/models"
)

// FormatDate renders the booking date the way notifications show it.
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

func FormatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatDateTime renders e.g. "2 January, 3:04 PM".
func FormatDateTime(t time.Time) string {
	return t.Format("2 January, 3:04 PM")
}

// DurationLabel renders a duration in minutes as "1h 30m", "45m" or "2h".
func DurationLabel(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

var statusLabels = map[models.BookingStatus]string{
	models.StatusPending:             "Awaiting confirmation",
	models.StatusConfirmed:           "Confirmed",
	models.StatusInProgress:          "In progress",
	models.StatusCompleted:           "Completed",
	models.StatusCancelledByClient:   "Cancelled by client",
	models.StatusCancelledByProvider: "Cancelled by provider",
	models.StatusNoShow:              "No-show",
	models.StatusExpired:             "Expired",
}

// StatusLabel returns the human label of s.
func StatusLabel(s models.BookingStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// BuildPayload assembles the notification fields for recipientID.
func BuildPayload(b *models.Booking, recipientID, counterpartyName string) models.NotificationPayload {
	p := models.NotificationPayload{
		RecipientID:      recipientID,
		BookingID:        b.ID,
		BookingNumber:    b.BookingNumber,
		CounterpartyName: counterpartyName,
		ServiceName:      b.ServiceName,
		Date:             FormatDate(b.StartTime),
		Time:             FormatTime(b.StartTime),
	}
	// The client is told where to go and whom to call; the provider gets the client's details.
	if recipientID == b.ClientID {
		p.Address = b.ProviderAddress
		p.Phone = b.ProviderPhone
		if b.ServiceType == models.ServiceOutcall {
			p.Address = b.ClientAddress
		}
	} else {
		p.Address = b.ClientAddress
		p.Phone = b.ClientPhone
	}
	return p
}
