package workflow

import (
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/droverhq/drover/pkg/config"
)

// Worker runs task workflows and their activities on the configured queue.
type Worker struct {
	worker worker.Worker
}

// NewWorker registers the task workflow and activities on a Temporal worker.
func NewWorker(c client.Client, cfg *config.TemporalConfig, activities *Activities) *Worker {
	w := worker.New(c, cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: cfg.MaxConcurrentActivities,
	})
	w.RegisterWorkflow(TaskWorkflow)
	w.RegisterActivity(activities)
	return &Worker{worker: w}
}

// Start begins polling in the background.
func (w *Worker) Start() error {
	if err := w.worker.Start(); err != nil {
		return fmt.Errorf("starting temporal worker: %w", err)
	}
	return nil
}

// Stop drains in-flight activities and stops polling.
func (w *Worker) Stop() {
	w.worker.Stop()
}
