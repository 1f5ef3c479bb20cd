package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
	"github.com/nbenliogludev/go-gui-agent/internal/actor"
	"github.com/nbenliogludev/go-gui-agent/internal/executor"
)

// scriptedActor replays a fixed sequence of model outputs.
type scriptedActor struct {
	outputs []string
	calls   int
	tasks   []string
}

func (a *scriptedActor) Act(_ context.Context, task string, _ actor.Frame) (actor.Output, error) {
	a.tasks = append(a.tasks, task)
	if a.calls >= len(a.outputs) {
		return actor.Output{}, errors.New("script exhausted")
	}
	out := a.outputs[a.calls]
	a.calls++
	return actor.Output{Content: out, Role: "assistant"}, nil
}

// recordingExecutor records dispatched calls and serves a synthetic frame.
type recordingExecutor struct {
	calls []string
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func (e *recordingExecutor) record(call string) error {
	e.calls = append(e.calls, call)
	return nil
}

func (e *recordingExecutor) Move(_ context.Context, p actions.Point) error {
	return e.record(fmt.Sprintf("move %d,%d", p.X, p.Y))
}
func (e *recordingExecutor) Click(_ context.Context, button string) error {
	return e.record("click " + button)
}
func (e *recordingExecutor) Press(_ context.Context) error { return e.record("press") }
func (e *recordingExecutor) Drag(_ context.Context, to actions.Point) error {
	return e.record(fmt.Sprintf("drag %d,%d", to.X, to.Y))
}
func (e *recordingExecutor) Type(_ context.Context, text string) error {
	return e.record("type " + text)
}
func (e *recordingExecutor) Key(_ context.Context, combo string) error {
	return e.record("key " + combo)
}
func (e *recordingExecutor) Scroll(_ context.Context, direction string, amount int) error {
	return e.record(fmt.Sprintf("scroll %s %d", direction, amount))
}
func (e *recordingExecutor) Screenshot(_ context.Context) (*executor.Screenshot, error) {
	return &executor.Screenshot{
		PNG:       pngFixture,
		RawWidth:  200,
		RawHeight: 100,
		Width:     200,
		Height:    100,
	}, nil
}
func (e *recordingExecutor) Close() error { return nil }

var pngFixture []byte

func newTestAgent(t *testing.T, act actor.Actor) (*Agent, *recordingExecutor) {
	t.Helper()
	if pngFixture == nil {
		pngFixture = testPNG(t, 200, 100)
	}
	exec := &recordingExecutor{}
	a := NewAgent(act, exec, actions.Rect{X0: 0, Y0: 0, X1: 200, Y1: 100}, false)
	return a, exec
}

func TestRunnerClickThenStop(t *testing.T) {
	act := &scriptedActor{outputs: []string{
		`[{"action": "CLICK", "value": null, "position": [0.5, 0.5]}]`,
		`[{"action": "STOP", "value": null, "position": null}]`,
	}}
	a, exec := newTestAgent(t, act)

	r := NewRunner(a, "click the button", 5)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"move 100,50", "click left"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, exec.calls[i], want[i])
		}
	}
	if act.calls != 2 {
		t.Errorf("actor calls = %d, want 2", act.calls)
	}
}

func TestRunnerSkipsBadBatch(t *testing.T) {
	act := &scriptedActor{outputs: []string{
		`[{"action": "FLY", "value": null, "position": null}]`,
		`[{"action": "ENTER", "value": null, "position": null}, {"action": "STOP"}]`,
	}}
	a, exec := newTestAgent(t, act)

	if err := NewRunner(a, "task", 5).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The unsupported batch must not execute anything.
	if len(exec.calls) != 1 || exec.calls[0] != "key Enter" {
		t.Fatalf("calls = %v, want [key Enter]", exec.calls)
	}
}

func TestRunnerMaxSteps(t *testing.T) {
	act := &scriptedActor{outputs: []string{
		`[{"action": "SCROLL", "value": "down", "position": null}]`,
		`[{"action": "SCROLL", "value": "up", "position": null}]`,
		`[{"action": "SCROLL", "value": "down", "position": null}]`,
	}}
	a, _ := newTestAgent(t, act)

	err := NewRunner(a, "task", 3).Run(context.Background())
	if !errors.Is(err, ErrMaxSteps) {
		t.Fatalf("err = %v, want ErrMaxSteps", err)
	}
}

func TestRunnerHistoryInPrompt(t *testing.T) {
	act := &scriptedActor{outputs: []string{
		`[{"action": "ENTER", "value": null, "position": null}]`,
		`[{"action": "STOP", "value": null, "position": null}]`,
	}}
	a, _ := newTestAgent(t, act)

	if err := NewRunner(a, "press enter", 5).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(act.tasks) != 2 {
		t.Fatalf("actor calls = %d, want 2", len(act.tasks))
	}
	if strings.Contains(act.tasks[0], "Previous steps") {
		t.Errorf("first prompt should have no history: %q", act.tasks[0])
	}
	if !strings.Contains(act.tasks[1], "Previous steps") || !strings.Contains(act.tasks[1], "key:Enter") {
		t.Errorf("second prompt missing history: %q", act.tasks[1])
	}
}

func TestStepMemoryLoopGuard(t *testing.T) {
	mem := NewStepMemory(10, 3)
	res := actions.Result{Actions: []actions.PrimitiveAction{
		{Action: actions.MouseMove, Coordinate: &actions.Point{X: 10, Y: 10}},
		{Action: actions.LeftClick},
	}}

	if blocked, _ := mem.ShouldBlock(res); blocked {
		t.Fatal("fresh batch should not be blocked")
	}
	mem.Add(1, res)
	mem.Add(2, res)

	blocked, reason := mem.ShouldBlock(res)
	if !blocked {
		t.Fatal("expected third identical batch to be blocked")
	}
	if !strings.Contains(reason, "Do NOT repeat") {
		t.Errorf("reason = %q", reason)
	}

	other := actions.Result{Actions: []actions.PrimitiveAction{
		{Action: actions.KeyPress, Text: "Return"},
	}}
	if blocked, _ := mem.ShouldBlock(other); blocked {
		t.Error("different batch should not be blocked")
	}
}

func TestStepMemoryWindow(t *testing.T) {
	mem := NewStepMemory(2, 3)
	for i := 1; i <= 4; i++ {
		mem.Add(i, actions.Result{Actions: []actions.PrimitiveAction{
			{Action: actions.TypeText, Text: fmt.Sprintf("msg %d", i)},
		}})
	}

	history := mem.HistoryString()
	if strings.Contains(history, "step=1") || strings.Contains(history, "step=2") {
		t.Errorf("window should keep only recent lines: %q", history)
	}
	if !strings.Contains(history, "step=3") || !strings.Contains(history, "step=4") {
		t.Errorf("window missing recent lines: %q", history)
	}
	if full := mem.FullHistory(); len(full) != 4 {
		t.Errorf("full history = %d lines, want 4", len(full))
	}
}
