// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"time"
)

// Poll calls check every interval until it reports done, returns an error, or ctx is canceled.
// The first check runs immediately.
func Poll(ctx context.Context, interval time.Duration, check func(context.Context) (bool, error)) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		done, err := check(ctx)
		if err != nil || done {
			return err
		}
		timer.Reset(interval)
	}
}
