// Package automation sequences database operations into named workflows whose
// steps fail independently.
package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wajiddaudtamboli/careercompass/internal/metrics"
)

type Logger interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Step is one named unit of a workflow
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type Workflow struct {
	Name  string
	Steps []Step
}

type StepResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Result is the outcome of a workflow run. Success holds only when every
// step succeeded.
type Result struct {
	Workflow string
	Steps    []StepResult
	Success  bool
	Duration time.Duration
}

// Failed returns the results of the steps that failed
func (r Result) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

type Runner struct {
	log Logger
}

func NewRunner(log Logger) *Runner {
	return &Runner{log: log}
}

// Run executes every step of wf in order. A failing or panicking step is
// logged and the next step still runs.
func (r *Runner) Run(ctx context.Context, wf Workflow) Result {
	r.log.Info("Starting %s workflow (%d steps)", wf.Name, len(wf.Steps))
	start := time.Now()
	res := Result{Workflow: wf.Name, Success: true}

	for i, step := range wf.Steps {
		r.log.Info("[%d/%d] %s", i+1, len(wf.Steps), step.Name)
		stepStart := time.Now()
		err := runStep(ctx, step)
		res.Steps = append(res.Steps, StepResult{Name: step.Name, Err: err, Duration: time.Since(stepStart)})
		if err != nil {
			res.Success = false
			r.log.Error("%s failed: %v", step.Name, err)
			continue
		}
		r.log.Success("%s done", step.Name)
	}

	res.Duration = time.Since(start)
	metrics.WorkflowRuns.WithLabelValues(wf.Name, metrics.Result(res.Success)).Inc()
	if res.Success {
		r.log.Success("%s workflow completed in %s", wf.Name, res.Duration.Round(time.Millisecond))
	} else {
		r.log.Warn("%s workflow completed with %d failed step(s)", wf.Name, len(res.Failed()))
	}
	return res
}

func runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return step.Run(ctx)
}

// Schedule runs wf on the cron spec until ctx is cancelled. A run that is
// still in progress when the next one is due causes that tick to be skipped.
func (r *Runner) Schedule(ctx context.Context, spec string, wf Workflow) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { r.Run(ctx, wf) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	r.log.Info("Scheduled %s workflow (%s)", wf.Name, spec)
	c.Start()
	<-ctx.Done()

	r.log.Info("Stopping %s schedule", wf.Name)
	<-c.Stop().Done()
	return nil
}
