// internal/writer/runner.go
package writer

import (
	"context"
	"log"
	"time"

	"github.com/tamzrod/fsm-bridge/internal/status"
)

// RunStatus publishes the monitor snapshot once per period until ctx ends.
// It owns seconds_in_error: +1 per period while the monitor is in error or
// stale, reset otherwise. Unchanged snapshots are not re-sent.
func RunStatus(ctx context.Context, src Source, sw StatusWriter, period time.Duration) {
	var (
		published status.Snapshot
		seconds   uint16
		dirty     = true
	)

	// Default snapshot state on start.
	published.Health = status.HealthUnknown

	// Full block write on start (identity re-assert).
	if err := sw.WriteStatus(published); err != nil {
		log.Printf("status write failed on start: %v", err)
	} else {
		dirty = false
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			snap := src.Snapshot()

			switch snap.Health {
			case status.HealthError, status.HealthStale:
				if seconds < 65535 {
					seconds++
				}
			default:
				seconds = 0
			}
			snap.SecondsInError = seconds

			if !dirty && snap == published {
				continue
			}

			if err := sw.WriteStatus(snap); err != nil {
				log.Printf("status write failed: %v", err)
				dirty = true
				continue
			}
			published = snap
			dirty = false
		}
	}
}
