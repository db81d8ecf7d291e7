// Package worker runs a Temporal worker over classes that pass contract
// validation. Every registration path validates first and refuses the whole
// batch when any class is out of contract, so a worker never polls with a
// half-registered task queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/temporalguard/catalog"
	"github.com/yungbote/temporalguard/client"
	"github.com/yungbote/temporalguard/contract"
	"github.com/yungbote/temporalguard/defn"
	"github.com/yungbote/temporalguard/internal/envutil"
	"github.com/yungbote/temporalguard/logger"
	"github.com/yungbote/temporalguard/reflectx"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

type namedHandler struct {
	name string
	fn   any
}

// Runner accumulates validated registrations and materializes a fresh
// Temporal worker per start attempt.
type Runner struct {
	log *logger.Logger
	tc  temporalsdkclient.Client

	activities []namedHandler
	workflows  []namedHandler
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("worker: temporal client is not configured")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{log: log, tc: tc}, nil
}

// RegisterActivities validates every target against the activity policy and
// queues each marked method under "Type.Method". Nothing is queued unless
// all targets pass.
func (r *Runner) RegisterActivities(targets ...any) error {
	queued := make([]namedHandler, 0, len(targets))
	for _, target := range targets {
		hs, err := validatedHandlers(target, defn.ActivityPolicy(), defn.TagActivity)
		if err != nil {
			return fmt.Errorf("worker: register activities: %w", err)
		}
		queued = append(queued, hs...)
	}
	r.activities = append(r.activities, queued...)
	return nil
}

// RegisterWorkflowRun validates the target against the workflow policy and
// queues its marked run methods.
func (r *Runner) RegisterWorkflowRun(target any) error {
	hs, err := validatedHandlers(target, defn.WorkflowPolicy(), defn.TagWorkflowRun)
	if err != nil {
		return fmt.Errorf("worker: register workflow run: %w", err)
	}
	r.workflows = append(r.workflows, hs...)
	return nil
}

// RegisterWorkflowFunc queues a free workflow function under an explicit
// name. Function workflows have no declaration to validate.
func (r *Runner) RegisterWorkflowFunc(fn any, name string) error {
	if fn == nil || strings.TrimSpace(name) == "" {
		return fmt.Errorf("worker: register workflow func: a function and a name are required")
	}
	r.workflows = append(r.workflows, namedHandler{name: strings.TrimSpace(name), fn: fn})
	return nil
}

// RegisterTree bulk-validates every marked class reachable from root and
// queues their activity methods in discovery order. Validation failures
// arrive as one catalog.BulkError; nothing is queued when any class fails.
func (r *Runner) RegisterTree(root *catalog.Module) error {
	pairs, err := catalog.ValidateTree(root, defn.ActivityPolicy())
	if err != nil {
		return fmt.Errorf("worker: register tree: %w", err)
	}
	queued := make([]namedHandler, 0, len(pairs))
	for _, pair := range pairs {
		for _, m := range reflectx.MarkedMethods(pair.Target, defn.TagActivity) {
			queued = append(queued, namedHandler{name: pair.Definition.BareName() + "." + m.Name, fn: m.Fn})
		}
	}
	r.activities = append(r.activities, queued...)
	return nil
}

func validatedHandlers(target any, p contract.Policy, tag contract.Tag) ([]namedHandler, error) {
	def, err := reflectx.Describe(target)
	if err != nil {
		return nil, err
	}
	if err := contract.Validate(p, def); err != nil {
		return nil, err
	}
	ms := reflectx.MarkedMethods(target, tag)
	if len(ms) == 0 {
		return nil, fmt.Errorf("%s is not a bound instance", def.Name)
	}
	hs := make([]namedHandler, 0, len(ms))
	for _, m := range ms {
		hs = append(hs, namedHandler{name: def.BareName() + "." + m.Name, fn: m.Fn})
	}
	return hs, nil
}

// Start brings the worker up, retrying with backoff while the cluster or
// namespace is still coming online. It returns once the worker is polling;
// cancellation of ctx stops it.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("worker: not initialized")
	}

	cfg := client.LoadConfig()
	r.log.Info("Starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)

	// Local/self-hosted convenience; Temporal Cloud namespaces should be
	// pre-created with TEMPORAL_AUTO_REGISTER_NAMESPACE left off.
	if envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
		baseCtx := ctx
		if baseCtx == nil {
			baseCtx = context.Background()
		}
		if err := client.EnsureNamespace(baseCtx, r.tc, cfg.Namespace, r.log); err != nil {
			r.log.Warn("Temporal namespace ensure failed; worker will retry on start", "namespace", cfg.Namespace, "error", err)
		}
	}

	maxWait := envutil.DurationSeconds("TEMPORAL_WORKER_START_MAX_WAIT_SECONDS", 60)
	backoff := envutil.DurationMillis("TEMPORAL_WORKER_START_BACKOFF_MS", 250)
	backoffMax := envutil.DurationMillis("TEMPORAL_WORKER_START_BACKOFF_MAX_MS", 5000)

	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		w := r.newWorker(cfg)
		startErr := w.Start()
		if startErr == nil {
			if ctx != nil {
				go func() {
					<-ctx.Done()
					w.Stop()
				}()
			}
			r.log.Info("Temporal worker started", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempts", attempt)
			return nil
		}

		w.Stop()

		// If the namespace is missing and auto-register is enabled, create
		// it and retry.
		var nfe *serviceerror.NamespaceNotFound
		if errors.As(startErr, &nfe) && envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
			baseCtx := ctx
			if baseCtx == nil {
				baseCtx = context.Background()
			}
			_ = client.EnsureNamespace(baseCtx, r.tc, cfg.Namespace, r.log)
		}

		if maxWait <= 0 || time.Now().After(deadline) {
			var nfe2 *serviceerror.NamespaceNotFound
			if errors.As(startErr, &nfe2) {
				return fmt.Errorf("worker: temporal namespace not found (namespace=%s): %w", cfg.Namespace, startErr)
			}
			return startErr
		}

		r.log.Warn("Temporal worker failed to start; retrying", "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue, "attempt", attempt, "error", startErr)

		sleep := clampBackoff(backoff, backoffMax, attempt)
		if sleep > 0 {
			time.Sleep(sleep)
		}
	}
}

// Run starts the worker and blocks until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (r *Runner) newWorker(cfg client.Config) sdkworker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}

	w := sdkworker.New(r.tc, cfg.TaskQueue, sdkworker.Options{
		// Workflow and activity concurrency are separately tunable in
		// Temporal; one knob covers both here.
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	for _, h := range r.activities {
		w.RegisterActivityWithOptions(h.fn, activity.RegisterOptions{Name: h.name})
	}
	for _, h := range r.workflows {
		w.RegisterWorkflowWithOptions(h.fn, workflow.RegisterOptions{Name: h.name})
	}
	return w
}

func clampBackoff(base time.Duration, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if max > 0 && sleep >= max {
			return max
		}
	}
	if max > 0 && sleep > max {
		return max
	}
	return sleep
}
