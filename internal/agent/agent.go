package agent

import (
	"context"
	"fmt"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
	"github.com/nbenliogludev/go-gui-agent/internal/actor"
	"github.com/nbenliogludev/go-gui-agent/internal/executor"
	"github.com/nbenliogludev/go-gui-agent/internal/screen"
)

// Agent couples a vision actor with an input executor: the actor looks at
// screenshots and proposes actions, the executor replays them on the target.
type Agent struct {
	actor      actor.Actor
	exec       executor.Executor
	dispatcher *executor.Dispatcher

	screenBBox actions.Rect
	phoneSplit bool
}

func NewAgent(act actor.Actor, exec executor.Executor, screenBBox actions.Rect, phoneSplit bool) *Agent {
	return &Agent{
		actor:      act,
		exec:       exec,
		dispatcher: executor.NewDispatcher(exec),
		screenBBox: screenBBox,
		phoneSplit: phoneSplit,
	}
}

// observe captures a frame and computes the viewport the actor's coordinates
// refer to. With the phone split enabled only a centered 9:16 strip of the
// screen is exposed to the model.
func (a *Agent) observe(ctx context.Context) (actor.Frame, actions.Viewport, error) {
	shot, err := a.exec.Screenshot(ctx)
	if err != nil {
		return actor.Frame{}, actions.Viewport{}, err
	}

	var crop *actions.Rect
	if a.phoneSplit {
		c := screen.PhoneCrop(a.screenBBox)
		crop = &c
	}
	vp := screen.Viewport(a.screenBBox, crop, shot.Width, shot.Height)

	frame := actor.Frame{
		PNG:    shot.PNG,
		Width:  shot.Width,
		Height: shot.Height,
	}
	return frame, vp, nil
}

// propose asks the actor for the next action batch and normalizes it against
// the current viewport. The batch is validated as a whole; one bad item
// rejects all of it.
func (a *Agent) propose(ctx context.Context, task string, frame actor.Frame, vp actions.Viewport) (actions.Result, error) {
	out, err := a.actor.Act(ctx, task, frame)
	if err != nil {
		return actions.Result{}, fmt.Errorf("%w: %v", ErrActorFail, err)
	}

	res, err := actions.Decode(out.Content, vp)
	if err != nil {
		return actions.Result{}, fmt.Errorf("%w: %v (output: %s)", ErrDecodeFail, err, out.Content)
	}
	return res, nil
}

// replay executes a normalized batch strictly in order.
func (a *Agent) replay(ctx context.Context, res actions.Result) error {
	if err := a.dispatcher.DispatchAll(ctx, res.Actions); err != nil {
		return fmt.Errorf("%w: %v", ErrExecuteFail, err)
	}
	return nil
}
