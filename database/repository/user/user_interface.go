package userRepo

import (
	"context"

	"bookingcore/models"
)

// ClientRepository defines read access to booking clients.
type ClientRepository interface {
	// GetClient retrieves a client by its unique ID.
	GetClient(ctx context.Context, id string) (*models.Client, error)
	// Create inserts a new client record.
	Create(ctx context.Context, client *models.Client) error
	EnsureIndexes() error
}
