package booking

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ConflictDetector answers whether a window collides with a provider's
// schedule-blocking bookings. Pending bookings never block.
type ConflictDetector struct {
	store  BookingStore
	logger *zap.Logger
}

func NewConflictDetector(store BookingStore, logger *zap.Logger) *ConflictDetector {
	return &ConflictDetector{store: store, logger: logger}
}

// HasConflict reports whether another confirmed or in-progress booking for
// providerID overlaps [start, end). excludeID is ignored when non-empty.
func (d *ConflictDetector) HasConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error) {
	conflict, err := d.store.HasTimeConflict(ctx, providerID, start, end, excludeID)
	if err != nil {
		d.logger.Error("Conflict lookup failed",
			zap.String("provider_id", providerID),
			zap.Time("start", start),
			zap.Time("end", end),
			zap.Error(err))
		return false, persistenceError("conflict lookup failed", err)
	}
	return conflict, nil
}
