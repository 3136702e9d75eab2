package booking

import (
	"context"
	"time"

	"bookingcore/models"
)

// BookingStore persists bookings. Implementations must make WithinTransaction
// serialize callers per provider, and UpdateStatus must only succeed when the
// stored status still equals expected.
type BookingStore interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByNumber(ctx context.Context, number string) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	AttachServices(ctx context.Context, bookingID string, serviceIDs []string) error
	HasTimeConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, u models.StatusUpdate) (*models.Booking, error)
	AppendAuditEntry(ctx context.Context, entry models.AuditEntry) error
	ListPendingCreatedBefore(ctx context.Context, before time.Time, limit int) ([]models.Booking, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	WithinTransaction(ctx context.Context, providerID string, fn func(ctx context.Context) error) error
}

// ProviderDirectory resolves providers.
type ProviderDirectory interface {
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
}

// ProviderRegistry manages provider records.
type ProviderRegistry interface {
	CreateProvider(ctx context.Context, provider *models.Provider) error
	SetBookingPreferences(ctx context.Context, providerID string, accepting, autoConfirm bool) error
}

// ClientDirectory resolves clients for notification payloads.
type ClientDirectory interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
}

// ProviderStats maintains provider running counters.
type ProviderStats interface {
	IncrementConfirmed(ctx context.Context, providerID string, at time.Time) error
}

// SlotStore holds materialized schedule slots.
type SlotStore interface {
	DeleteByBooking(ctx context.Context, bookingID string) error
	CreateMany(ctx context.Context, slots []models.ScheduleSlot) error
	GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.ScheduleSlot, error)
	GetByBooking(ctx context.Context, bookingID string) ([]models.ScheduleSlot, error)
}

// Notifier delivers messages. Delivery timing and retries belong to the implementation.
type Notifier interface {
	ScheduleReminder(ctx context.Context, bookingID, channel string, at time.Time, payload models.NotificationPayload) error
	Dispatch(ctx context.Context, userID, templateType string, payload models.NotificationPayload, channels []string) error
}

// DepositLinker creates a payment link for a booking deposit.
type DepositLinker interface {
	CreateDepositLink(ctx context.Context, b *models.Booking, amount float64) (string, error)
}

// EventPublisher publishes domain events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Clock returns the current time.
type Clock func() time.Time

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }
