package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
	"github.com/nbenliogludev/go-gui-agent/internal/actor"
	"github.com/nbenliogludev/go-gui-agent/internal/agent"
	"github.com/nbenliogludev/go-gui-agent/internal/executor"
	"github.com/nbenliogludev/go-gui-agent/internal/planner"
	"github.com/nbenliogludev/go-gui-agent/internal/screen"
)

func main() {
	actorName := flag.String("actor", "showui", "vision actor: showui, uitars or gemini")
	execName := flag.String("executor", "chromedp", "action target: xdotool, chromedp or playwright")
	screenIdx := flag.Int("screen", 0, "screen index for the xdotool executor")
	phone := flag.Bool("phone", false, "expose only a centered 9:16 strip of the screen")
	startURL := flag.String("url", "https://example.com", "start URL for browser executors")
	maxSteps := flag.Int("max-steps", 15, "give up after this many steps")
	headless := flag.Bool("headless", false, "run the chromedp browser headless")
	usePlan := flag.Bool("plan", false, "decompose the task into subtasks first (needs OPENAI_API_KEY)")
	flag.Parse()

	fmt.Println("Starting GUI agent (observe-act loop)...")

	ctx := context.Background()

	exec, bbox, err := buildExecutor(ctx, *execName, *screenIdx, *startURL, *headless)
	if err != nil {
		log.Fatalf("failed to start executor: %v", err)
	}
	defer exec.Close()

	act, err := buildActor(ctx, *actorName)
	if err != nil {
		log.Fatalf("failed to create actor: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Describe the task for the agent (e.g. 'Open the settings menu'):\n> ")
	rawTask, _ := reader.ReadString('\n')
	task := strings.TrimSpace(rawTask)
	if task == "" {
		log.Fatalf("empty task, nothing to do")
	}

	ag := agent.NewAgent(act, exec, bbox, *phone)

	if *usePlan {
		if err := runWithPlan(ctx, ag, task, *maxSteps); err != nil {
			log.Printf("Agent finished with error: %v", err)
		} else {
			log.Printf("Agent finished without errors.")
		}
		return
	}

	if err := agent.NewRunner(ag, task, *maxSteps).Run(ctx); err != nil {
		log.Printf("Agent finished with error: %v", err)
	} else {
		log.Printf("Agent finished without errors.")
	}
}

// runWithPlan decomposes the task into subtasks and runs each one with its
// own step budget.
func runWithPlan(ctx context.Context, ag *agent.Agent, task string, maxSteps int) error {
	pl, err := planner.NewOpenAIPlanner()
	if err != nil {
		return err
	}

	plan, err := pl.BuildPlan(ctx, task)
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}
	if len(plan.Steps) == 0 {
		return fmt.Errorf("planner produced an empty plan")
	}

	fmt.Println("📋 PLAN:")
	for _, step := range plan.Steps {
		fmt.Printf("  %d. [%s] %s\n", step.Index, step.Mode, step.Goal)
	}

	for _, step := range plan.Steps {
		fmt.Printf("\n===== SUBTASK %d: %s =====\n", step.Index, step.Goal)
		subtask := fmt.Sprintf("%s\n\nCurrent subtask: %s", task, step.Goal)
		if err := agent.NewRunner(ag, subtask, maxSteps).Run(ctx); err != nil {
			return fmt.Errorf("subtask %d: %w", step.Index, err)
		}
	}
	return nil
}

func buildExecutor(ctx context.Context, name string, screenIdx int, startURL string, headless bool) (executor.Executor, actions.Rect, error) {
	switch name {
	case "xdotool":
		exec, err := executor.NewXdotoolExecutor()
		if err != nil {
			return nil, actions.Rect{}, err
		}
		bbox, err := screen.Bounds(screenIdx)
		if err != nil {
			return nil, actions.Rect{}, fmt.Errorf("resolve screen %d: %w", screenIdx, err)
		}
		return exec, bbox, nil

	case "chromedp":
		exec, err := executor.NewChromedpExecutor(ctx, startURL, headless)
		if err != nil {
			return nil, actions.Rect{}, err
		}
		return exec, pageBounds(), nil

	case "playwright":
		exec, err := executor.NewPlaywrightExecutor(startURL)
		if err != nil {
			return nil, actions.Rect{}, err
		}
		return exec, pageBounds(), nil

	default:
		return nil, actions.Rect{}, fmt.Errorf("unknown executor %q", name)
	}
}

func buildActor(ctx context.Context, name string) (actor.Actor, error) {
	switch name {
	case "showui":
		return actor.NewShowUIActor(os.Getenv("SHOWUI_URL"), os.Getenv("SHOWUI_MODEL"))

	case "uitars":
		return actor.NewUITARSActor(os.Getenv("UITARS_URL"), os.Getenv("UITARS_API_KEY"))

	case "gemini":
		return actor.NewGeminiActor(ctx, os.Getenv("GEMINI_MODEL"))

	default:
		return nil, fmt.Errorf("unknown actor %q", name)
	}
}

// Browser executors always render the page at the default frame size, so the
// viewport is the whole page.
func pageBounds() actions.Rect {
	return actions.Rect{
		X0: 0,
		Y0: 0,
		X1: executor.DefaultFrameWidth,
		Y1: executor.DefaultFrameHeight,
	}
}
