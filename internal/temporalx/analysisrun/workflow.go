package analysisrun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const defaultConcurrency = 4

// DailyAnalysisWorkflow lists every user and runs the analysis pipeline for
// each one. A user whose activity fails after retries is reported in the
// result; the workflow itself only fails when the user list cannot be read.
func DailyAnalysisWorkflow(ctx workflow.Context, in DailyInput) (DailyResult, error) {
	log := workflow.GetLogger(ctx)
	limit := in.Concurrency
	if limit < 1 {
		limit = defaultConcurrency
	}

	listCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 5 * time.Second,
			MaximumAttempts: 5,
		},
	})
	var ids []string
	if err := workflow.ExecuteActivity(listCtx, ActivityListUsers).Get(ctx, &ids); err != nil {
		return DailyResult{}, err
	}

	runCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    30 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	res := DailyResult{Users: len(ids)}
	for start := 0; start < len(ids); start += limit {
		end := start + limit
		if end > len(ids) {
			end = len(ids)
		}
		futures := make([]workflow.Future, 0, end-start)
		for _, id := range ids[start:end] {
			futures = append(futures, workflow.ExecuteActivity(runCtx, ActivityRunUser, id))
		}
		for i, f := range futures {
			var out UserResult
			if err := f.Get(ctx, &out); err != nil {
				id := ids[start+i]
				log.Warn("User analysis failed", "user_id", id, "error", err)
				res.Failed = append(res.Failed, id)
				continue
			}
			res.Succeeded++
		}
	}
	return res, nil
}
