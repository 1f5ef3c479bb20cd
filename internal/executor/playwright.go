package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

// Key names Playwright spells differently than the models emit.
var playwrightKeys = map[string]string{
	"ctrl":      "Control",
	"control":   "Control",
	"shift":     "Shift",
	"alt":       "Alt",
	"option":    "Alt",
	"cmd":       "Meta",
	"meta":      "Meta",
	"win":       "Meta",
	"enter":     "Enter",
	"esc":       "Escape",
	"escape":    "Escape",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
	"space":     "Space",
	"up":        "ArrowUp",
	"down":      "ArrowDown",
	"left":      "ArrowLeft",
	"right":     "ArrowRight",
	"home":      "Home",
	"end":       "End",
	"pageup":    "PageUp",
	"pagedown":  "PageDown",
}

// PlaywrightExecutor drives a persistent Chromium page as the action target.
type PlaywrightExecutor struct {
	pw      *playwright.Playwright
	context playwright.BrowserContext
	page    playwright.Page
}

// NewPlaywrightExecutor launches a persistent headful browser and opens
// startURL, reusing profile data between runs.
func NewPlaywrightExecutor(startURL string) (*PlaywrightExecutor, error) {
	if err := playwright.Install(); err != nil {
		return nil, fmt.Errorf("install pw failed: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start pw failed: %w", err)
	}

	userDataDir, _ := os.Getwd()
	userDataDir = filepath.Join(userDataDir, ".playwright_data")

	browserCtx, err := pw.Chromium.LaunchPersistentContext(
		userDataDir,
		playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(false),
			Viewport: &playwright.Size{Width: DefaultFrameWidth, Height: DefaultFrameHeight},
			Args: []string{
				"--disable-blink-features=AutomationControlled",
			},
		},
	)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	var page playwright.Page
	if pages := browserCtx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = browserCtx.NewPage()
		if err != nil {
			_ = browserCtx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}
	page.SetDefaultTimeout(60000)

	if startURL != "" {
		if _, err := page.Goto(startURL); err != nil {
			_ = browserCtx.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("could not navigate to %s: %w", startURL, err)
		}
	}

	return &PlaywrightExecutor{pw: pw, context: browserCtx, page: page}, nil
}

func (e *PlaywrightExecutor) Move(_ context.Context, p actions.Point) error {
	return e.page.Mouse().Move(float64(p.X), float64(p.Y))
}

func (e *PlaywrightExecutor) Click(_ context.Context, button string) error {
	btn := playwright.MouseButtonLeft
	switch button {
	case "right":
		btn = playwright.MouseButtonRight
	case "middle":
		btn = playwright.MouseButtonMiddle
	}
	if err := e.page.Mouse().Down(playwright.MouseDownOptions{Button: btn}); err != nil {
		return err
	}
	return e.page.Mouse().Up(playwright.MouseUpOptions{Button: btn})
}

func (e *PlaywrightExecutor) Press(_ context.Context) error {
	if err := e.page.Mouse().Down(); err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond)
	return e.page.Mouse().Up()
}

func (e *PlaywrightExecutor) Drag(_ context.Context, to actions.Point) error {
	if err := e.page.Mouse().Down(); err != nil {
		return err
	}
	if err := e.page.Mouse().Move(float64(to.X), float64(to.Y)); err != nil {
		return err
	}
	return e.page.Mouse().Up()
}

func (e *PlaywrightExecutor) Type(_ context.Context, text string) error {
	if text == "" {
		return nil
	}
	return e.page.Keyboard().Type(text)
}

func (e *PlaywrightExecutor) Key(_ context.Context, combo string) error {
	mapped, err := playwrightKeyCombo(combo)
	if err != nil {
		return err
	}
	return e.page.Keyboard().Press(mapped)
}

func (e *PlaywrightExecutor) Scroll(_ context.Context, direction string, amount int) error {
	if amount <= 0 {
		amount = 1
	}
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
	return e.page.Mouse().Wheel(dx, dy)
}

func (e *PlaywrightExecutor) Screenshot(_ context.Context) (*Screenshot, error) {
	data, err := e.page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return processFrame(data, DefaultFrameWidth, DefaultFrameHeight)
}

func (e *PlaywrightExecutor) Close() error {
	if e.context != nil {
		_ = e.context.Close()
	}
	if e.pw != nil {
		return e.pw.Stop()
	}
	return nil
}

// playwrightKeyCombo rewrites a model combo into Playwright key syntax
// ("ctrl+shift+p" -> "Control+Shift+P").
func playwrightKeyCombo(combo string) (string, error) {
	var parts []string
	for _, part := range strings.Split(combo, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mapped, ok := playwrightKeys[strings.ToLower(part)]; ok {
			parts = append(parts, mapped)
			continue
		}
		if len(part) == 1 {
			parts = append(parts, strings.ToUpper(part))
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("key combo %q has no key", combo)
	}
	return strings.Join(parts, "+"), nil
}
