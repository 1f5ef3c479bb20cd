package agent

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInterrupted = errors.New("execution interrupted")
	ErrMaxSteps    = errors.New("max steps reached")
	ErrCaptureFail = errors.New("screen capture error")
	ErrActorFail   = errors.New("actor error")
	ErrDecodeFail  = errors.New("decode error")
	ErrExecuteFail = errors.New("execute error")
)

type Runner struct {
	agent      *Agent
	task       string
	maxSteps   int
	mem        *StepMemory
	reporter   *Reporter
	signalCtrl *SignalController
}

func NewRunner(a *Agent, task string, maxSteps int) *Runner {
	return &Runner{
		agent:      a,
		task:       task,
		maxSteps:   maxSteps,
		mem:        NewStepMemory(10, 3),
		reporter:   NewReporter(task),
		signalCtrl: NewSignalController(),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	defer r.signalCtrl.Close()

	for step := 1; step <= r.maxSteps; step++ {
		if r.signalCtrl.Interrupted() {
			r.reporter.Interrupted(start, r.mem)
			return ErrInterrupted
		}

		finished, err := r.executeStep(ctx, step)
		if err != nil {
			r.reporter.StepError(err)
		}

		if finished {
			r.reporter.Finished(start, r.mem)
			return nil
		}

		select {
		case <-ctx.Done():
			r.reporter.Interrupted(start, r.mem)
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	r.reporter.MaxStepsReached(start, r.mem)
	return ErrMaxSteps
}

func (r *Runner) executeStep(ctx context.Context, step int) (bool, error) {
	r.reporter.StepStart(step)

	frame, vp, err := r.agent.observe(ctx)
	if err != nil {
		return false, ErrCaptureFail
	}

	task := r.task
	if history := r.mem.HistoryString(); history != "" {
		task = task + "\n\nPrevious steps:\n" + history
	}

	res, err := r.agent.propose(ctx, task, frame, vp)
	if err != nil {
		// A bad batch is skipped whole; the next frame gives the actor a
		// fresh chance.
		r.mem.AddSystemNote("SYSTEM ERROR: " + err.Error())
		return false, err
	}

	r.reporter.LogStep(step, res)

	if blocked, reason := r.mem.ShouldBlock(res); blocked {
		r.reporter.LoopGuard(reason)
		r.mem.AddSystemNote(reason)
		return false, nil
	}

	if err := r.agent.replay(ctx, res); err != nil {
		r.mem.AddSystemNote("SYSTEM ERROR: " + err.Error())
		return false, err
	}

	r.mem.Add(step, res)
	return res.Stopped, nil
}
