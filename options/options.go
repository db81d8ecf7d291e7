// Package options holds the canonical call-option maps validated by the
// default policies and converts them into SDK option structs at call
// sites. Keys are named after the SDK fields they populate.
package options

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	KeyStartToCloseTimeout      = "StartToCloseTimeout"
	KeyScheduleToCloseTimeout   = "ScheduleToCloseTimeout"
	KeyScheduleToStartTimeout   = "ScheduleToStartTimeout"
	KeyHeartbeatTimeout         = "HeartbeatTimeout"
	KeyRetryPolicy              = "RetryPolicy"
	KeyWorkflowExecutionTimeout = "WorkflowExecutionTimeout"
	KeyWorkflowRunTimeout       = "WorkflowRunTimeout"
	KeyWorkflowTaskTimeout      = "WorkflowTaskTimeout"
)

// DefaultRetryPolicy is deliberately conservative: short first retry,
// doubling up to a minute, five attempts total.
func DefaultRetryPolicy() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:    5 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    time.Minute,
		MaximumAttempts:    5,
	}
}

// DefaultActivityCallOptions satisfies the built-in activity policy.
func DefaultActivityCallOptions() map[string]any {
	return map[string]any{
		KeyStartToCloseTimeout: 30 * time.Minute,
		KeyRetryPolicy:         DefaultRetryPolicy(),
	}
}

// DefaultWorkflowStartOptions satisfies the built-in workflow policy.
func DefaultWorkflowStartOptions() map[string]any {
	return map[string]any{
		KeyWorkflowExecutionTimeout: 72 * time.Hour,
		KeyWorkflowRunTimeout:       72 * time.Hour,
	}
}

// Merge overlays override on base without touching either input.
func Merge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// ActivityOptions converts a validated option map into SDK activity
// options. Unknown keys and wrong value types are errors rather than
// silent drops so a typo cannot strip a timeout.
func ActivityOptions(m map[string]any) (workflow.ActivityOptions, error) {
	var opts workflow.ActivityOptions
	for key, v := range m {
		switch key {
		case KeyStartToCloseTimeout:
			d, err := asDuration(key, v)
			if err != nil {
				return workflow.ActivityOptions{}, err
			}
			opts.StartToCloseTimeout = d
		case KeyScheduleToCloseTimeout:
			d, err := asDuration(key, v)
			if err != nil {
				return workflow.ActivityOptions{}, err
			}
			opts.ScheduleToCloseTimeout = d
		case KeyScheduleToStartTimeout:
			d, err := asDuration(key, v)
			if err != nil {
				return workflow.ActivityOptions{}, err
			}
			opts.ScheduleToStartTimeout = d
		case KeyHeartbeatTimeout:
			d, err := asDuration(key, v)
			if err != nil {
				return workflow.ActivityOptions{}, err
			}
			opts.HeartbeatTimeout = d
		case KeyRetryPolicy:
			rp, err := asRetryPolicy(key, v)
			if err != nil {
				return workflow.ActivityOptions{}, err
			}
			opts.RetryPolicy = rp
		default:
			return workflow.ActivityOptions{}, fmt.Errorf("options: unknown activity option %s", key)
		}
	}
	return opts, nil
}

// ApplyStartOptions overlays a validated option map onto SDK start
// options, leaving fields it does not know about alone.
func ApplyStartOptions(m map[string]any, so *client.StartWorkflowOptions) error {
	if so == nil {
		return fmt.Errorf("options: nil start options")
	}
	for key, v := range m {
		switch key {
		case KeyWorkflowExecutionTimeout:
			d, err := asDuration(key, v)
			if err != nil {
				return err
			}
			so.WorkflowExecutionTimeout = d
		case KeyWorkflowRunTimeout:
			d, err := asDuration(key, v)
			if err != nil {
				return err
			}
			so.WorkflowRunTimeout = d
		case KeyWorkflowTaskTimeout:
			d, err := asDuration(key, v)
			if err != nil {
				return err
			}
			so.WorkflowTaskTimeout = d
		case KeyRetryPolicy:
			rp, err := asRetryPolicy(key, v)
			if err != nil {
				return err
			}
			so.RetryPolicy = rp
		default:
			return fmt.Errorf("options: unknown workflow start option %s", key)
		}
	}
	return nil
}

func asDuration(key string, v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("options: %s: %w", key, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("options: %s must be a duration, got %T", key, v)
	}
}

func asRetryPolicy(key string, v any) (*temporal.RetryPolicy, error) {
	switch rp := v.(type) {
	case *temporal.RetryPolicy:
		return rp, nil
	case temporal.RetryPolicy:
		return &rp, nil
	default:
		return nil, fmt.Errorf("options: %s must be a temporal.RetryPolicy, got %T", key, v)
	}
}
