package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper drops sessions idle for longer than ttl.
type Sweeper interface {
	Sweep(ttl time.Duration) int
}

// StartSessionJanitor sweeps expired in-memory sessions every interval until
// ctx is cancelled. The returned channel is closed once the loop has exited.
func StartSessionJanitor(ctx context.Context, store Sweeper, interval, ttl time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if store == nil || interval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := store.Sweep(ttl); removed > 0 {
					logger.Debug("expired sessions removed", zap.Int("count", removed))
				}
			}
		}
	}()
	return done
}
