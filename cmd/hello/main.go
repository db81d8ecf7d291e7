// Command hello runs a worker over a validated activity class, then
// executes a workflow against it and prints the result. It needs a
// reachable Temporal server (TEMPORALGUARD_ADDRESS, e.g. localhost:7233).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/temporalguard/client"
	"github.com/yungbote/temporalguard/defn"
	"github.com/yungbote/temporalguard/heartbeat"
	"github.com/yungbote/temporalguard/logger"
	"github.com/yungbote/temporalguard/options"
	"github.com/yungbote/temporalguard/telemetry"
	"github.com/yungbote/temporalguard/worker"
)

type GreetInput struct {
	Name string
}

type GreetOutput struct {
	Greeting string
}

// GreetService carries one marked activity method plus the call options its
// author recommends, which is exactly what the activity contract checks.
type GreetService struct {
	OptsGreet map[string]any
}

func NewGreetService() *GreetService {
	return &GreetService{
		OptsGreet: options.Merge(options.DefaultActivityCallOptions(), map[string]any{
			options.KeyHeartbeatTimeout: 10 * time.Second,
		}),
	}
}

func (s *GreetService) Greet(ctx context.Context, in GreetInput) (GreetOutput, error) {
	stop := heartbeat.Start(ctx)
	defer stop()
	return GreetOutput{Greeting: "Hello, " + in.Name + "!"}, nil
}

func init() {
	defn.MustActivity(&GreetService{}, "Greet")
}

func GreetWorkflow(ctx workflow.Context, in GreetInput) (GreetOutput, error) {
	opts, err := options.ActivityOptions(NewGreetService().OptsGreet)
	if err != nil {
		return GreetOutput{}, err
	}
	ctx = workflow.WithActivityOptions(ctx, opts)

	var out GreetOutput
	if err := workflow.ExecuteActivity(ctx, "GreetService.Greet", in).Get(ctx, &out); err != nil {
		return GreetOutput{}, err
	}
	return out, nil
}

func main() {
	// Logger
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	// Telemetry (no-op unless TELEMETRY_ENABLED is set)
	if shutdown := telemetry.Init(ctx, log, telemetry.Config{ServiceName: "temporalguard-hello"}); shutdown != nil {
		defer shutdown(context.Background())
	}

	// Temporal client
	tc, err := client.Dial(log)
	if err != nil {
		log.Error("Temporal dial failed", "error", err)
		os.Exit(1)
	}
	if tc == nil {
		log.Error("Set TEMPORALGUARD_ADDRESS to run the example (e.g. localhost:7233)")
		os.Exit(1)
	}
	defer tc.Close()

	// Worker; registration refuses out-of-contract classes.
	run, err := worker.NewRunner(log, tc)
	if err != nil {
		log.Error("Worker init failed", "error", err)
		os.Exit(1)
	}
	if err := run.RegisterActivities(NewGreetService()); err != nil {
		log.Error("Activity registration refused", "error", err)
		os.Exit(1)
	}
	if err := run.RegisterWorkflowFunc(GreetWorkflow, "GreetWorkflow"); err != nil {
		log.Error("Workflow registration refused", "error", err)
		os.Exit(1)
	}
	if err := run.Start(ctx); err != nil {
		log.Error("Worker start failed", "error", err)
		os.Exit(1)
	}

	// In production the client side usually lives in a separate process;
	// running both here keeps the example to one command.
	cfg := client.LoadConfig()
	so := temporalsdkclient.StartWorkflowOptions{
		ID:        "hello-" + uuid.NewString(),
		TaskQueue: cfg.TaskQueue,
	}
	if err := options.ApplyStartOptions(options.DefaultWorkflowStartOptions(), &so); err != nil {
		log.Error("Start options invalid", "error", err)
		os.Exit(1)
	}

	wr, err := tc.ExecuteWorkflow(ctx, so, "GreetWorkflow", GreetInput{Name: "Temporal"})
	if err != nil {
		log.Error("Workflow start failed", "error", err)
		os.Exit(1)
	}
	var out GreetOutput
	if err := wr.Get(ctx, &out); err != nil {
		log.Error("Workflow failed", "error", err)
		os.Exit(1)
	}
	log.Info("Workflow complete", "workflow_id", wr.GetID(), "greeting", out.Greeting)
}
