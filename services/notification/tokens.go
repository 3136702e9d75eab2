package notification

import (
	"context"
	"errors"

	"bookingcore/database/repository"
	"bookingcore/services/booking"
)

// DirectoryTokens looks the recipient up as a client first, then as a provider.
func DirectoryTokens(clients booking.ClientDirectory, providers booking.ProviderDirectory) TokenLookup {
	return func(ctx context.Context, recipientID string) (string, error) {
		c, err := clients.GetClient(ctx, recipientID)
		if err == nil {
			return c.FCMToken, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		p, err := providers.GetProvider(ctx, recipientID)
		if err != nil {
			return "", err
		}
		return p.FCMToken, nil
	}
}
