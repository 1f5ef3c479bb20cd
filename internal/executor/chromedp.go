package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

// Named keys for CDP key events.
var cdpKeys = map[string]string{
	"enter":     kb.Enter,
	"esc":       kb.Escape,
	"escape":    kb.Escape,
	"tab":       kb.Tab,
	"backspace": kb.Backspace,
	"delete":    kb.Delete,
	"up":        kb.ArrowUp,
	"down":      kb.ArrowDown,
	"left":      kb.ArrowLeft,
	"right":     kb.ArrowRight,
	"home":      kb.Home,
	"end":       kb.End,
	"pageup":    kb.PageUp,
	"pagedown":  kb.PageDown,
	"space":     " ",
}

// ChromedpExecutor treats a Chrome page as the desktop, injecting raw CDP
// input events. Useful as a sandboxed target: the agent gets a full GUI to
// act on without touching the host's mouse and keyboard.
type ChromedpExecutor struct {
	ctx    context.Context
	cancel context.CancelFunc
	cursor actions.Point
}

// NewChromedpExecutor starts a browser and navigates to startURL.
func NewChromedpExecutor(parent context.Context, startURL string, headless bool) (*ChromedpExecutor, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.WindowSize(DefaultFrameWidth, DefaultFrameHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}

	if startURL == "" {
		startURL = "about:blank"
	}
	if err := chromedp.Run(ctx, chromedp.Navigate(startURL)); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return &ChromedpExecutor{ctx: ctx, cancel: cancel}, nil
}

func (e *ChromedpExecutor) Move(_ context.Context, p actions.Point) error {
	e.cursor = p
	return chromedp.Run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, float64(p.X), float64(p.Y)).Do(ctx)
	}))
}

func (e *ChromedpExecutor) Click(_ context.Context, button string) error {
	btn := input.Left
	switch button {
	case "right":
		btn = input.Right
	case "middle":
		btn = input.Middle
	}
	x, y := float64(e.cursor.X), float64(e.cursor.Y)
	return chromedp.Run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := input.DispatchMouseEvent(input.MousePressed, x, y).
			WithButton(btn).WithClickCount(1).Do(ctx); err != nil {
			return err
		}
		return input.DispatchMouseEvent(input.MouseReleased, x, y).
			WithButton(btn).WithClickCount(1).Do(ctx)
	}))
}

func (e *ChromedpExecutor) Press(_ context.Context) error {
	x, y := float64(e.cursor.X), float64(e.cursor.Y)
	return chromedp.Run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := input.DispatchMouseEvent(input.MousePressed, x, y).
			WithButton(input.Left).WithClickCount(1).Do(ctx); err != nil {
			return err
		}
		time.Sleep(500 * time.Millisecond)
		return input.DispatchMouseEvent(input.MouseReleased, x, y).
			WithButton(input.Left).WithClickCount(1).Do(ctx)
	}))
}

func (e *ChromedpExecutor) Drag(_ context.Context, to actions.Point) error {
	from := e.cursor
	e.cursor = to
	return chromedp.Run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := input.DispatchMouseEvent(input.MousePressed, float64(from.X), float64(from.Y)).
			WithButton(input.Left).WithClickCount(1).Do(ctx); err != nil {
			return err
		}
		if err := input.DispatchMouseEvent(input.MouseMoved, float64(to.X), float64(to.Y)).
			WithButton(input.Left).Do(ctx); err != nil {
			return err
		}
		return input.DispatchMouseEvent(input.MouseReleased, float64(to.X), float64(to.Y)).
			WithButton(input.Left).WithClickCount(1).Do(ctx)
	}))
}

func (e *ChromedpExecutor) Type(_ context.Context, text string) error {
	if text == "" {
		return nil
	}
	return chromedp.Run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.InsertText(text).Do(ctx)
	}))
}

func (e *ChromedpExecutor) Key(_ context.Context, combo string) error {
	key, mods, err := cdpKeyCombo(combo)
	if err != nil {
		return err
	}
	return chromedp.Run(e.ctx, chromedp.KeyEvent(key, chromedp.KeyModifiers(mods...)))
}

func (e *ChromedpExecutor) Scroll(_ context.Context, direction string, amount int) error {
	if amount <= 0 {
		amount = 1
	}
	// One wheel notch per unit, ~100px each.
	delta := float64(amount * 100)
	var dx, dy float64
	switch direction {
	case "up":
		dy = -delta
	case "down":
		dy = delta
	case "left":
		dx = -delta
	case "right":
		dx = delta
	default:
		return fmt.Errorf("scroll direction %q not supported", direction)
	}
	x, y := float64(e.cursor.X), float64(e.cursor.Y)
	return chromedp.Run(e.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseWheel, x, y).
			WithDeltaX(dx).WithDeltaY(dy).Do(ctx)
	}))
}

func (e *ChromedpExecutor) Screenshot(_ context.Context) (*Screenshot, error) {
	var buf []byte
	if err := chromedp.Run(e.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return processFrame(buf, DefaultFrameWidth, DefaultFrameHeight)
}

func (e *ChromedpExecutor) Close() error {
	e.cancel()
	return nil
}

// cdpKeyCombo splits a model combo into the final key plus CDP modifiers.
func cdpKeyCombo(combo string) (string, []input.Modifier, error) {
	var mods []input.Modifier
	key := ""
	for _, part := range strings.Split(combo, "+") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "":
			continue
		case "ctrl", "control":
			mods = append(mods, input.ModifierCtrl)
		case "shift":
			mods = append(mods, input.ModifierShift)
		case "alt", "option":
			mods = append(mods, input.ModifierAlt)
		case "cmd", "meta", "win", "super":
			mods = append(mods, input.ModifierMeta)
		default:
			key = part
		}
	}
	if key == "" {
		return "", nil, fmt.Errorf("key combo %q has no key", combo)
	}
	if named, ok := cdpKeys[key]; ok {
		return named, mods, nil
	}
	return key, mods, nil
}
