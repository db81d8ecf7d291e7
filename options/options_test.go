package options

import (
	"strings"
	"testing"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
)

func TestDefaultActivityCallOptions(t *testing.T) {
	m := DefaultActivityCallOptions()
	if m[KeyStartToCloseTimeout] != 30*time.Minute {
		t.Fatalf("unexpected start-to-close: %#v", m[KeyStartToCloseTimeout])
	}
	rp, ok := m[KeyRetryPolicy].(*temporal.RetryPolicy)
	if !ok || rp == nil {
		t.Fatalf("unexpected retry policy: %#v", m[KeyRetryPolicy])
	}
	if rp.InitialInterval != 5*time.Second || rp.BackoffCoefficient != 2.0 ||
		rp.MaximumInterval != time.Minute || rp.MaximumAttempts != 5 {
		t.Fatalf("unexpected retry policy values: %#v", rp)
	}
}

func TestDefaultWorkflowStartOptions(t *testing.T) {
	m := DefaultWorkflowStartOptions()
	if m[KeyWorkflowExecutionTimeout] != 72*time.Hour || m[KeyWorkflowRunTimeout] != 72*time.Hour {
		t.Fatalf("unexpected workflow timeouts: %#v", m)
	}
}

func TestMerge_OverrideWinsWithoutMutation(t *testing.T) {
	base := map[string]any{KeyStartToCloseTimeout: 30 * time.Minute, KeyHeartbeatTimeout: time.Minute}
	override := map[string]any{KeyStartToCloseTimeout: time.Hour}

	merged := Merge(base, override)
	if merged[KeyStartToCloseTimeout] != time.Hour || merged[KeyHeartbeatTimeout] != time.Minute {
		t.Fatalf("unexpected merge result: %#v", merged)
	}
	if base[KeyStartToCloseTimeout] != 30*time.Minute {
		t.Fatalf("merge must not mutate its inputs: %#v", base)
	}
}

func TestActivityOptions_MapsEveryKey(t *testing.T) {
	rp := DefaultRetryPolicy()
	opts, err := ActivityOptions(map[string]any{
		KeyStartToCloseTimeout:    30 * time.Minute,
		KeyScheduleToCloseTimeout: time.Hour,
		KeyScheduleToStartTimeout: "90s",
		KeyHeartbeatTimeout:       2 * time.Minute,
		KeyRetryPolicy:            rp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.StartToCloseTimeout != 30*time.Minute || opts.ScheduleToCloseTimeout != time.Hour {
		t.Fatalf("unexpected options: %#v", opts)
	}
	if opts.ScheduleToStartTimeout != 90*time.Second {
		t.Fatalf("string durations should parse: %#v", opts.ScheduleToStartTimeout)
	}
	if opts.HeartbeatTimeout != 2*time.Minute || opts.RetryPolicy != rp {
		t.Fatalf("unexpected options: %#v", opts)
	}
}

func TestActivityOptions_ValueRetryPolicyIsAccepted(t *testing.T) {
	opts, err := ActivityOptions(map[string]any{
		KeyRetryPolicy: temporal.RetryPolicy{MaximumAttempts: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.RetryPolicy == nil || opts.RetryPolicy.MaximumAttempts != 2 {
		t.Fatalf("unexpected retry policy: %#v", opts.RetryPolicy)
	}
}

func TestActivityOptions_RejectsUnknownKeys(t *testing.T) {
	_, err := ActivityOptions(map[string]any{"StartToClose": time.Minute})
	if err == nil || !strings.Contains(err.Error(), "unknown activity option") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActivityOptions_RejectsWrongTypes(t *testing.T) {
	if _, err := ActivityOptions(map[string]any{KeyStartToCloseTimeout: 1800}); err == nil {
		t.Fatalf("bare ints are ambiguous and should fail")
	}
	if _, err := ActivityOptions(map[string]any{KeyRetryPolicy: "5s"}); err == nil {
		t.Fatalf("strings are not retry policies")
	}
	if _, err := ActivityOptions(map[string]any{KeyStartToCloseTimeout: "soon"}); err == nil {
		t.Fatalf("unparseable durations should fail")
	}
}

func TestApplyStartOptions(t *testing.T) {
	var so client.StartWorkflowOptions
	err := ApplyStartOptions(map[string]any{
		KeyWorkflowExecutionTimeout: 72 * time.Hour,
		KeyWorkflowRunTimeout:       72 * time.Hour,
		KeyWorkflowTaskTimeout:      time.Minute,
	}, &so)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if so.WorkflowExecutionTimeout != 72*time.Hour || so.WorkflowRunTimeout != 72*time.Hour || so.WorkflowTaskTimeout != time.Minute {
		t.Fatalf("unexpected start options: %#v", so)
	}

	if err := ApplyStartOptions(map[string]any{KeyHeartbeatTimeout: time.Minute}, &so); err == nil {
		t.Fatalf("activity keys are not start options")
	}
	if err := ApplyStartOptions(nil, nil); err == nil {
		t.Fatalf("nil start options should fail")
	}
}
