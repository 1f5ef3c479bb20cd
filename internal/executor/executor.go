package executor

import (
	"context"
	"fmt"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

// Screenshot is one captured frame: the PNG handed to the model plus its raw
// (on-screen) and processed (after resize) pixel sizes. The processed size is
// what coordinate resolution treats as the observed image size.
type Screenshot struct {
	PNG       []byte
	RawWidth  int
	RawHeight int
	Width     int
	Height    int
}

// Executor is the low-level input-injection capability. Implementations keep
// whatever backend state they need (an X display, a browser page); callers
// sequence operations through a Dispatcher.
type Executor interface {
	Move(ctx context.Context, p actions.Point) error
	Click(ctx context.Context, button string) error
	Press(ctx context.Context) error
	Drag(ctx context.Context, to actions.Point) error
	Type(ctx context.Context, text string) error
	Key(ctx context.Context, combo string) error
	Scroll(ctx context.Context, direction string, amount int) error
	Screenshot(ctx context.Context) (*Screenshot, error)
	Close() error
}

// Dispatcher executes a canonical primitive sequence in order, tracking the
// cursor so a scroll with a focus point moves there first and drags start
// from the last moved position.
type Dispatcher struct {
	exec   Executor
	cursor *actions.Point
}

func NewDispatcher(exec Executor) *Dispatcher {
	return &Dispatcher{exec: exec}
}

// Cursor returns the last position a dispatched action moved to, or nil if
// nothing has moved the mouse yet.
func (d *Dispatcher) Cursor() *actions.Point {
	return d.cursor
}

// DispatchAll executes the batch strictly in order, stopping at the first
// failure. Each action may depend on screen state mutated by the previous one.
func (d *Dispatcher) DispatchAll(ctx context.Context, batch []actions.PrimitiveAction) error {
	for i, act := range batch {
		if err := d.Dispatch(ctx, act); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, act.Action, err)
		}
	}
	return nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, act actions.PrimitiveAction) error {
	switch act.Action {
	case actions.MouseMove:
		if act.Coordinate == nil {
			return fmt.Errorf("mouse_move requires a coordinate")
		}
		if err := d.exec.Move(ctx, *act.Coordinate); err != nil {
			return err
		}
		d.cursor = act.Coordinate
		return nil

	case actions.LeftClick:
		return d.exec.Click(ctx, "left")

	case actions.LeftPress:
		return d.exec.Press(ctx)

	case actions.LeftClickDrag:
		if act.Coordinate == nil {
			return fmt.Errorf("left_click_drag requires a coordinate")
		}
		if err := d.exec.Drag(ctx, *act.Coordinate); err != nil {
			return err
		}
		d.cursor = act.Coordinate
		return nil

	case actions.TypeText:
		return d.exec.Type(ctx, act.Text)

	case actions.KeyPress:
		return d.exec.Key(ctx, act.Text)

	case actions.Scroll:
		if act.Coordinate != nil {
			if err := d.exec.Move(ctx, *act.Coordinate); err != nil {
				return err
			}
			d.cursor = act.Coordinate
		}
		return d.exec.Scroll(ctx, act.ScrollDirection, act.ScrollAmount)

	default:
		return fmt.Errorf("unknown primitive action %q", act.Action)
	}
}
