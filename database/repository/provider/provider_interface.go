package providerRepo

import (
	"context"
	"time"

	"bookingcore/models"
)

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetProvider retrieves a live provider by its unique ID.
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	// CreateProvider inserts a new provider record.
	CreateProvider(ctx context.Context, provider *models.Provider) error
	// IncrementConfirmed bumps the confirmed-bookings counter.
	IncrementConfirmed(ctx context.Context, providerID string, at time.Time) error
	// SetBookingPreferences updates the acceptance and auto-confirm switches.
	SetBookingPreferences(ctx context.Context, providerID string, accepting, autoConfirm bool) error
	EnsureIndexes() error
}
