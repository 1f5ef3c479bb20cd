package main

import (
	"context"
	"os"
	"testing"

	"github.com/nbenliogludev/go-gui-agent/internal/executor"
)

func TestBuildActorUnknown(t *testing.T) {
	if _, err := buildActor(context.Background(), "clippy"); err == nil {
		t.Fatal("expected error for unknown actor")
	}
}

func TestBuildActorMissingKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := buildActor(context.Background(), "showui"); err == nil {
		t.Error("showui without OPENAI_API_KEY should fail")
	}

	t.Setenv("UITARS_URL", "")
	if _, err := buildActor(context.Background(), "uitars"); err == nil {
		t.Error("uitars without UITARS_URL should fail")
	}

	t.Setenv("GEMINI_API_KEY", "")
	if _, err := buildActor(context.Background(), "gemini"); err == nil {
		t.Error("gemini without GEMINI_API_KEY should fail")
	}
}

func TestBuildExecutorUnknown(t *testing.T) {
	if _, _, err := buildExecutor(context.Background(), "telekinesis", 0, "", true); err == nil {
		t.Fatal("expected error for unknown executor")
	}
}

func TestPageBounds(t *testing.T) {
	b := pageBounds()
	if b.Width() != executor.DefaultFrameWidth || b.Height() != executor.DefaultFrameHeight {
		t.Errorf("page bounds = %dx%d, want %dx%d",
			b.Width(), b.Height(), executor.DefaultFrameWidth, executor.DefaultFrameHeight)
	}
}

// Live smoke test: needs a display, Chrome and a real model endpoint.
// Run with GUI_AGENT_E2E=1 OPENAI_API_KEY=... SHOWUI_URL=... go test ./cmd/...
func TestLiveChromedpShowUI(t *testing.T) {
	if os.Getenv("GUI_AGENT_E2E") != "1" {
		t.Skip("set GUI_AGENT_E2E=1 to run the live smoke test")
	}

	ctx := context.Background()
	exec, _, err := buildExecutor(ctx, "chromedp", 0, "https://example.com", true)
	if err != nil {
		t.Fatalf("start executor: %v", err)
	}
	defer exec.Close()

	shot, err := exec.Screenshot(ctx)
	if err != nil {
		t.Fatalf("screenshot: %v", err)
	}
	if len(shot.PNG) == 0 || shot.Width == 0 || shot.Height == 0 {
		t.Fatalf("empty screenshot: %+v", shot)
	}
}
