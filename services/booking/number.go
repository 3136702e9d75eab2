package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookingcore/database/repository"

	"github.com/google/uuid"
)

// NumberGenerator produces human-readable booking numbers of the form
// BK<yyyymmdd>-<6 upper-case hex digits>.
type NumberGenerator struct {
	store    BookingStore
	clock    Clock
	random   func() string
	attempts int
}

func NewNumberGenerator(store BookingStore, clock Clock, attempts int) *NumberGenerator {
	return &NumberGenerator{store: store, clock: clock, random: randomSuffix, attempts: attempts}
}

// Next returns a number not yet used by any booking.
func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	for i := 0; i < g.attempts; i++ {
		number := FormatBookingNumber(g.clock(), g.random())
		_, err := g.store.FindByNumber(ctx, number)
		if errors.Is(err, repository.ErrNotFound) {
			return number, nil
		}
		if err != nil {
			return "", persistenceError("booking number lookup failed", err)
		}
	}
	return "", persistenceError("booking number generation failed",
		fmt.Errorf("no unique number after %d attempts", g.attempts))
}

// FormatBookingNumber builds a booking number from a date and a suffix.
func FormatBookingNumber(day time.Time, suffix string) string {
	return fmt.Sprintf("BK%s-%s", day.Format("20060102"), strings.ToUpper(suffix))
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
}
