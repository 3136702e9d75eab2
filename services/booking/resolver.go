package booking

import (
	"context"
	"fmt"

	"bookingcore/models"
)

// Loader returns the display name of the entity with the given id.
type Loader func(ctx context.Context, id string) (string, error)

// Resolver maps a reference kind to the loader for that kind.
type Resolver map[models.RefKind]Loader

// NewResolver wires the standard loaders. Nil collaborators leave their kind unregistered.
func NewResolver(providers ProviderDirectory, clients ClientDirectory, bookings BookingStore) Resolver {
	r := Resolver{}
	if providers != nil {
		r[models.RefProvider] = func(ctx context.Context, id string) (string, error) {
			p, err := providers.GetProvider(ctx, id)
			if err != nil {
				return "", err
			}
			return p.Name, nil
		}
	}
	if clients != nil {
		r[models.RefUser] = func(ctx context.Context, id string) (string, error) {
			c, err := clients.GetClient(ctx, id)
			if err != nil {
				return "", err
			}
			return c.Name, nil
		}
	}
	if bookings != nil {
		r[models.RefBooking] = func(ctx context.Context, id string) (string, error) {
			b, err := bookings.FindByID(ctx, id)
			if err != nil {
				return "", err
			}
			return b.BookingNumber, nil
		}
	}
	return r
}

// DisplayName resolves ref through the loader registered for its kind.
func (r Resolver) DisplayName(ctx context.Context, ref models.Ref) (string, error) {
	if ref.IsZero() {
		return "", fmt.Errorf("empty reference")
	}
	load, ok := r[ref.Kind]
	if !ok {
		return "", fmt.Errorf("no loader registered for %s", ref.Kind)
	}
	return load(ctx, ref.ID)
}
