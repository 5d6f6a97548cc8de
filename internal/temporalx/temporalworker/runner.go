package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/services"
	"github.com/yungbote/vitality-backend/internal/temporalx"
	"github.com/yungbote/vitality-backend/internal/temporalx/analysisrun"
)

const cronWorkflowID = "vitality-daily-analysis"

type Runner struct {
	log         *logger.Logger
	tc          temporalsdkclient.Client
	cfg         temporalx.Config
	analysis    services.AnalysisService
	concurrency int
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, cfg temporalx.Config, analysis services.AnalysisService, concurrency int) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if analysis == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		log:         log.With("component", "TemporalRunner"),
		tc:          tc,
		cfg:         cfg,
		analysis:    analysis,
		concurrency: concurrency,
	}, nil
}

// Start polls the task queue until ctx is done and makes sure the daily
// cron workflow exists.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	autoRegister := envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false)
	err := temporalx.RetryFromEnv("TEMPORAL_WORKER_START", time.Minute).Do(ctx, r.log.With("task_queue", r.cfg.TaskQueue), "temporal worker start",
		func(ctx context.Context, attempt int) (bool, error) {
			w := r.newWorker()
			if err := w.Start(); err != nil {
				w.Stop()
				var nfe *serviceerror.NamespaceNotFound
				if errors.As(err, &nfe) && autoRegister {
					if nsErr := temporalx.EnsureNamespace(ctx, r.cfg, r.log); nsErr != nil {
						r.log.Warn("Temporal namespace ensure failed", "namespace", r.cfg.Namespace, "error", nsErr)
					}
				}
				return true, err
			}
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			return false, nil
		})
	if err != nil {
		return err
	}
	return r.ensureCron(ctx)
}

func (r *Runner) newWorker() worker.Worker {
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     r.concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: r.concurrency,
	})
	acts := &analysisrun.Activities{Log: r.log, Analysis: r.analysis}
	w.RegisterWorkflowWithOptions(analysisrun.DailyAnalysisWorkflow, workflow.RegisterOptions{Name: analysisrun.WorkflowName})
	w.RegisterActivityWithOptions(acts.ListUsers, activity.RegisterOptions{Name: analysisrun.ActivityListUsers})
	w.RegisterActivityWithOptions(acts.RunUser, activity.RegisterOptions{Name: analysisrun.ActivityRunUser})
	return w
}

// ensureCron starts the cron workflow unless a run with the same id is
// already scheduled.
func (r *Runner) ensureCron(ctx context.Context) error {
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:           cronWorkflowID,
		TaskQueue:    r.cfg.TaskQueue,
		CronSchedule: r.cfg.AnalysisCron,
	}
	run, err := r.tc.ExecuteWorkflow(ctx, opts, analysisrun.WorkflowName, analysisrun.DailyInput{Concurrency: r.concurrency})
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			return nil
		}
		return fmt.Errorf("start daily analysis workflow: %w", err)
	}
	r.log.Info("Daily analysis workflow scheduled", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "cron", r.cfg.AnalysisCron)
	return nil
}
