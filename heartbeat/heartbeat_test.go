package heartbeat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.temporal.io/sdk/activity"
)

func swapRecord(t *testing.T, fn func(context.Context, ...interface{})) {
	t.Helper()
	record = fn
	t.Cleanup(func() { record = activity.RecordHeartbeat })
}

func TestStart_NoopOutsideActivity(t *testing.T) {
	var calls atomic.Int64
	swapRecord(t, func(context.Context, ...interface{}) { calls.Add(1) })

	stop := Start(context.Background())
	stop()
	if calls.Load() != 0 {
		t.Fatalf("no heartbeats expected outside an activity: %d", calls.Load())
	}
}

func TestEvery_RecordsUntilStopped(t *testing.T) {
	beats := make(chan struct{}, 8)
	swapRecord(t, func(context.Context, ...interface{}) {
		select {
		case beats <- struct{}{}:
		default:
		}
	})

	stop := Every(context.Background(), 5*time.Millisecond)
	for i := 0; i < 2; i++ {
		select {
		case <-beats:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for heartbeat %d", i+1)
		}
	}
	stop()
}

func TestEvery_ZeroIntervalIsNoop(t *testing.T) {
	var calls atomic.Int64
	swapRecord(t, func(context.Context, ...interface{}) { calls.Add(1) })

	stop := Every(context.Background(), 0)
	stop()
	if calls.Load() != 0 {
		t.Fatalf("no heartbeats expected for a zero interval: %d", calls.Load())
	}
}

func TestEvery_StopSafeAfterContextCancel(t *testing.T) {
	swapRecord(t, func(context.Context, ...interface{}) {})

	ctx, cancel := context.WithCancel(context.Background())
	stop := Every(ctx, time.Millisecond)
	cancel()
	stop()
}
