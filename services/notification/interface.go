package notification

import (
	"context"

	"bookingcore/models"
)

// Sender delivers one rendered notification over a single channel.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// TokenLookup resolves the push token registered for a user or provider.
type TokenLookup func(ctx context.Context, recipientID string) (string, error)
