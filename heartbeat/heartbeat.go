// Package heartbeat keeps long-running activities alive by recording
// Temporal heartbeats on a timer. Without it, an activity executed with a
// heartbeat timeout would be considered lost unless it heartbeats by hand.
package heartbeat

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"
)

var record = activity.RecordHeartbeat

// Start begins heartbeating at half the heartbeat timeout of the activity
// that owns ctx. The returned stop function blocks until the loop exits and
// must be called exactly once; defer it next to the call. Outside an
// activity, or when the activity has no heartbeat timeout, Start is a no-op.
func Start(ctx context.Context, details ...any) (stop func()) {
	if !activity.IsActivity(ctx) {
		return func() {}
	}
	timeout := activity.GetInfo(ctx).HeartbeatTimeout
	if timeout <= 0 {
		return func() {}
	}
	return Every(ctx, timeout/2, details...)
}

// Every records a heartbeat each interval until stopped or ctx ends.
func Every(ctx context.Context, interval time.Duration, details ...any) (stop func()) {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-tick.C:
				record(ctx, details...)
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}
