package executor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

// fakeExecutor records every call so tests can assert on ordering.
type fakeExecutor struct {
	calls []string
	fail  string
}

func (f *fakeExecutor) record(call string) error {
	f.calls = append(f.calls, call)
	if f.fail != "" && strings.HasPrefix(call, f.fail) {
		return fmt.Errorf("injected failure on %s", call)
	}
	return nil
}

func (f *fakeExecutor) Move(_ context.Context, p actions.Point) error {
	return f.record(fmt.Sprintf("move %d,%d", p.X, p.Y))
}
func (f *fakeExecutor) Click(_ context.Context, button string) error {
	return f.record("click " + button)
}
func (f *fakeExecutor) Press(_ context.Context) error { return f.record("press") }
func (f *fakeExecutor) Drag(_ context.Context, to actions.Point) error {
	return f.record(fmt.Sprintf("drag %d,%d", to.X, to.Y))
}
func (f *fakeExecutor) Type(_ context.Context, text string) error {
	return f.record("type " + text)
}
func (f *fakeExecutor) Key(_ context.Context, combo string) error {
	return f.record("key " + combo)
}
func (f *fakeExecutor) Scroll(_ context.Context, direction string, amount int) error {
	return f.record(fmt.Sprintf("scroll %s %d", direction, amount))
}
func (f *fakeExecutor) Screenshot(_ context.Context) (*Screenshot, error) {
	return nil, fmt.Errorf("not implemented")
}
func (f *fakeExecutor) Close() error { return nil }

func pt(x, y int) *actions.Point { return &actions.Point{X: x, Y: y} }

func TestDispatchAllOrdering(t *testing.T) {
	fake := &fakeExecutor{}
	d := NewDispatcher(fake)

	batch := []actions.PrimitiveAction{
		{Action: actions.MouseMove, Coordinate: pt(100, 50)},
		{Action: actions.LeftClick},
		{Action: actions.TypeText, Text: "hello"},
		{Action: actions.KeyPress, Text: "ctrl+s"},
	}
	if err := d.DispatchAll(context.Background(), batch); err != nil {
		t.Fatalf("DispatchAll: %v", err)
	}

	want := []string{"move 100,50", "click left", "type hello", "key ctrl+s"}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, fake.calls[i], want[i])
		}
	}
}

func TestDispatchScrollMovesFirst(t *testing.T) {
	fake := &fakeExecutor{}
	d := NewDispatcher(fake)

	act := actions.PrimitiveAction{
		Action:          actions.Scroll,
		Coordinate:      pt(50, 75),
		ScrollDirection: "left",
		ScrollAmount:    10,
	}
	if err := d.Dispatch(context.Background(), act); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	want := []string{"move 50,75", "scroll left 10"}
	if len(fake.calls) != 2 || fake.calls[0] != want[0] || fake.calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	if c := d.Cursor(); c == nil || c.X != 50 || c.Y != 75 {
		t.Errorf("cursor = %v, want (50,75)", c)
	}
}

func TestDispatchScrollWithoutCoordinate(t *testing.T) {
	fake := &fakeExecutor{}
	d := NewDispatcher(fake)

	act := actions.PrimitiveAction{
		Action:          actions.Scroll,
		ScrollDirection: "down",
		ScrollAmount:    3,
	}
	if err := d.Dispatch(context.Background(), act); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "scroll down 3" {
		t.Fatalf("calls = %v, want [scroll down 3]", fake.calls)
	}
}

func TestDispatchDragUpdatesCursor(t *testing.T) {
	fake := &fakeExecutor{}
	d := NewDispatcher(fake)

	batch := []actions.PrimitiveAction{
		{Action: actions.MouseMove, Coordinate: pt(36, 80)},
		{Action: actions.LeftClickDrag, Coordinate: pt(164, 320)},
	}
	if err := d.DispatchAll(context.Background(), batch); err != nil {
		t.Fatalf("DispatchAll: %v", err)
	}
	if c := d.Cursor(); c == nil || c.X != 164 || c.Y != 320 {
		t.Errorf("cursor = %v, want (164,320)", c)
	}
}

func TestDispatchAllStopsOnFailure(t *testing.T) {
	fake := &fakeExecutor{fail: "click"}
	d := NewDispatcher(fake)

	batch := []actions.PrimitiveAction{
		{Action: actions.MouseMove, Coordinate: pt(10, 10)},
		{Action: actions.LeftClick},
		{Action: actions.TypeText, Text: "never typed"},
	}
	err := d.DispatchAll(context.Background(), batch)
	if err == nil {
		t.Fatal("expected error from failing click")
	}
	if !strings.Contains(err.Error(), "action 1 (left_click)") {
		t.Errorf("error = %v, want position and action name", err)
	}
	for _, call := range fake.calls {
		if strings.HasPrefix(call, "type") {
			t.Errorf("type executed after failure: %v", fake.calls)
		}
	}
}

func TestDispatchMissingCoordinate(t *testing.T) {
	d := NewDispatcher(&fakeExecutor{})
	for _, name := range []string{actions.MouseMove, actions.LeftClickDrag} {
		err := d.Dispatch(context.Background(), actions.PrimitiveAction{Action: name})
		if err == nil {
			t.Errorf("%s without coordinate: expected error", name)
		}
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	d := NewDispatcher(&fakeExecutor{})
	err := d.Dispatch(context.Background(), actions.PrimitiveAction{Action: "teleport"})
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
}
