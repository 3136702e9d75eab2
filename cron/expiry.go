package cron

import (
	"context"
	"time"

	"bookingcore/metrics"

	"go.uber.org/zap"
)

// Expirer moves stale pending bookings to expired.
type Expirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// RunExpirySweep performs one sweep and logs the outcome.
func RunExpirySweep(ctx context.Context, expirer Expirer, logger *zap.Logger) int {
	metrics.IncExpirySweep()
	n, err := expirer.ExpireStale(ctx)
	if err != nil {
		logger.Error("Expiry sweep finished with errors", zap.Int("expired", n), zap.Error(err))
		return n
	}
	if n > 0 {
		logger.Info("Expired stale pending bookings", zap.Int("expired", n))
	}
	return n
}

// StartExpirySweep runs RunExpirySweep every interval until ctx is done.
// A non-positive interval disables the sweep.
func StartExpirySweep(ctx context.Context, expirer Expirer, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		logger.Warn("Expiry sweep disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunExpirySweep(ctx, expirer, logger)
			}
		}
	}()
}
