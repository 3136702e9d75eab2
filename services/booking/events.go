package booking

import (
	"context"
	"time"

	"bookingcore/metrics"
	"bookingcore/models"

	"go.uber.org/zap"
)

// Routing keys of published booking events.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingStarted   = "booking.started"
	EventBookingCompleted = "booking.completed"
	EventBookingNoShow    = "booking.no_show"
	EventBookingExpired   = "booking.expired"
)

// Event is the body of a published booking event.
type Event struct {
	Type          string               `json:"type"`
	BookingID     string               `json:"booking_id"`
	BookingNumber string               `json:"booking_number"`
	ClientID      string               `json:"client_id"`
	ProviderID    string               `json:"provider_id"`
	Status        models.BookingStatus `json:"status"`
	StartTime     time.Time            `json:"start_time"`
	EndTime       time.Time            `json:"end_time"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

func (s *Service) publish(ctx context.Context, routingKey string, b *models.Booking) {
	evt := Event{
		Type:          routingKey,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		ClientID:      b.ClientID,
		ProviderID:    b.ProviderID,
		Status:        b.Status,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		OccurredAt:    s.clock(),
	}
	if err := s.events.Publish(ctx, routingKey, evt); err != nil {
		s.logger.Error("Failed to publish booking event",
			zap.String("event", routingKey),
			zap.String("booking_id", b.ID),
			zap.Error(err))
		metrics.RecordSideEffectFailure("event")
	}
}
