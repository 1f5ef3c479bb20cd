package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

// Scroll directions map to the X11 wheel buttons.
var scrollButtons = map[string]string{
	"up":    "4",
	"down":  "5",
	"left":  "6",
	"right": "7",
}

// Key names xdotool spells differently than the models emit.
var xdoKeysyms = map[string]string{
	"enter":     "Return",
	"esc":       "Escape",
	"escape":    "Escape",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"tab":       "Tab",
	"space":     "space",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"pageup":    "Prior",
	"pagedown":  "Next",
	"cmd":       "super",
	"win":       "super",
	"meta":      "super",
}

// XdotoolExecutor injects input into a real X11 desktop via xdotool and
// captures the screen with scrot/gnome-screenshot/import, whichever exists.
type XdotoolExecutor struct {
	frameWidth  int
	frameHeight int
}

func NewXdotoolExecutor() (*XdotoolExecutor, error) {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return nil, fmt.Errorf("xdotool is required (apt install xdotool): %w", err)
	}
	return &XdotoolExecutor{frameWidth: DefaultFrameWidth, frameHeight: DefaultFrameHeight}, nil
}

func (e *XdotoolExecutor) Move(ctx context.Context, p actions.Point) error {
	return e.run(ctx, "mousemove", strconv.Itoa(p.X), strconv.Itoa(p.Y))
}

func (e *XdotoolExecutor) Click(ctx context.Context, button string) error {
	b := "1"
	switch button {
	case "right":
		b = "3"
	case "middle":
		b = "2"
	}
	return e.run(ctx, "click", b)
}

func (e *XdotoolExecutor) Press(ctx context.Context) error {
	if err := e.run(ctx, "mousedown", "1"); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}
	return e.run(ctx, "mouseup", "1")
}

func (e *XdotoolExecutor) Drag(ctx context.Context, to actions.Point) error {
	if err := e.run(ctx, "mousedown", "1"); err != nil {
		return err
	}
	if err := e.run(ctx, "mousemove", strconv.Itoa(to.X), strconv.Itoa(to.Y)); err != nil {
		return err
	}
	return e.run(ctx, "mouseup", "1")
}

func (e *XdotoolExecutor) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return e.run(ctx, "type", "--delay", "10", text)
}

func (e *XdotoolExecutor) Key(ctx context.Context, combo string) error {
	if strings.TrimSpace(combo) == "" {
		return fmt.Errorf("key combo is empty")
	}
	return e.run(ctx, "key", xdoKeyCombo(combo))
}

func (e *XdotoolExecutor) Scroll(ctx context.Context, direction string, amount int) error {
	button, ok := scrollButtons[direction]
	if !ok {
		return fmt.Errorf("scroll direction %q not supported", direction)
	}
	if amount <= 0 {
		amount = 1
	}
	for i := 0; i < amount; i++ {
		if err := e.run(ctx, "click", button); err != nil {
			return err
		}
	}
	return nil
}

func (e *XdotoolExecutor) Screenshot(ctx context.Context) (*Screenshot, error) {
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("gui_agent_%d.png", time.Now().UnixNano()))
	defer os.Remove(tmp)

	var cmd *exec.Cmd
	if _, err := exec.LookPath("scrot"); err == nil {
		cmd = exec.CommandContext(ctx, "scrot", tmp)
	} else if _, err := exec.LookPath("gnome-screenshot"); err == nil {
		cmd = exec.CommandContext(ctx, "gnome-screenshot", "-f", tmp)
	} else if _, err := exec.LookPath("import"); err == nil {
		cmd = exec.CommandContext(ctx, "import", "-window", "root", tmp)
	} else {
		return nil, fmt.Errorf("screen capture requires scrot, gnome-screenshot or imagemagick (apt install scrot)")
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("screen capture failed: %v\n%s", err, out)
	}

	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	return processFrame(data, e.frameWidth, e.frameHeight)
}

func (e *XdotoolExecutor) Close() error { return nil }

func (e *XdotoolExecutor) run(ctx context.Context, args ...string) error {
	out, err := exec.CommandContext(ctx, "xdotool", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("xdotool %s failed: %v\n%s", args[0], err, out)
	}
	return nil
}

// xdoKeyCombo rewrites a lowercase model combo ("ctrl+shift+p") into the
// keysym names xdotool expects.
func xdoKeyCombo(combo string) string {
	parts := strings.Split(combo, "+")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if sym, ok := xdoKeysyms[strings.ToLower(part)]; ok {
			parts[i] = sym
		} else {
			parts[i] = part
		}
	}
	return strings.Join(parts, "+")
}
